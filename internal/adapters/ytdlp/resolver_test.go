package ytdlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHonorsBinaryPathOverride(t *testing.T) {
	t.Setenv("YTDLP_PATH", "/opt/yt-dlp")
	assert.Equal(t, "/opt/yt-dlp", New().binaryPath)
}

func TestNewDefaultsToPathLookup(t *testing.T) {
	t.Setenv("YTDLP_PATH", "")
	assert.Equal(t, "yt-dlp", New().binaryPath)
}

func TestResolveAudioURLReportsMissingBinary(t *testing.T) {
	c := &Client{binaryPath: "/nonexistent/yt-dlp"}

	_, err := c.ResolveAudioURL(context.Background(), "https://www.youtube.com/watch?v=x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp failed")
}
