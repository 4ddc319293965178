package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const mergeTimeout = 10 * time.Minute

// Transcoder merges media streams with the local ffmpeg binary. It
// implements ports.Transcoder.
type Transcoder struct {
	binaryPath string
}

// NewTranscoder creates a new Transcoder. The binary path is taken from the
// FFMPEG_PATH environment variable, falling back to ffmpeg on PATH.
func NewTranscoder() *Transcoder {
	if path := os.Getenv("FFMPEG_PATH"); path != "" {
		return &Transcoder{binaryPath: path}
	}
	return &Transcoder{binaryPath: "ffmpeg"}
}

// mergeArgs builds the argument list for a copy-codec merge of one audio
// and one video stream into outputFile.
func mergeArgs(videoFile, audioFile, outputFile string) []string {
	return []string{
		"-y",
		"-loglevel", "error",
		"-nostdin",
		"-i", audioFile,
		"-i", videoFile,
		"-vcodec", "copy",
		"-acodec", "copy",
		outputFile,
	}
}

// Merge writes the merged file to outputFile. Both input streams are copied
// without re-encoding. On a non-zero exit the returned error carries
// ffmpeg's stderr text.
func (t *Transcoder) Merge(ctx context.Context, videoFile, audioFile, outputFile string) error {
	ctx, cancel := context.WithTimeout(ctx, mergeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binaryPath, mergeArgs(videoFile, audioFile, outputFile)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
