package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 2 * time.Minute

// Client resolves watch links and search queries using the local yt-dlp
// binary. It implements ports.StreamResolver and ports.LinkResolver.
type Client struct {
	binaryPath string
}

// New creates a new Client. The binary path is taken from the YTDLP_PATH
// environment variable, falling back to yt-dlp on PATH.
func New() *Client {
	if path := os.Getenv("YTDLP_PATH"); path != "" {
		return &Client{binaryPath: path}
	}
	return &Client{
		binaryPath: "yt-dlp", // Assumes yt-dlp is in PATH
	}
}

// ResolveVideoURL fetches the direct stream link for the best combined
// format using yt-dlp --get-url.
func (c *Client) ResolveVideoURL(ctx context.Context, watchURL string) (string, error) {
	return c.getURL(ctx, "b", watchURL)
}

// ResolveAudioURL fetches the direct stream link for the best audio-only
// format, falling back to the best combined format for sources without a
// separate audio stream.
func (c *Client) ResolveAudioURL(ctx context.Context, watchURL string) (string, error) {
	return c.getURL(ctx, "ba/b", watchURL)
}

func (c *Client) getURL(ctx context.Context, format, watchURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	// --get-url: Only output the URL
	// --no-warnings: Suppress warnings
	cmd := exec.CommandContext(ctx, c.binaryPath, "-f", format, "--get-url", "--no-warnings", watchURL)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, stderr.String())
	}

	urlStr := strings.TrimSpace(out.String())
	if urlStr == "" {
		return "", fmt.Errorf("yt-dlp returned empty URL")
	}

	// yt-dlp might return multiple URLs for merged formats, just take the first one
	urls := strings.Split(urlStr, "\n")
	return urls[0], nil
}

// ResolveLink turns a song title into a watch link by taking the first
// yt-dlp search result.
func (c *Client) ResolveLink(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	query := "ytsearch1:" + title
	cmd := exec.CommandContext(ctx, c.binaryPath, "--get-id", "--no-warnings", query)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp search failed: %w, stderr: %s", err, stderr.String())
	}

	id := strings.TrimSpace(out.String())
	if id == "" {
		return "", fmt.Errorf("no search result for %q", title)
	}
	if i := strings.IndexByte(id, '\n'); i >= 0 {
		id = id[:i]
	}

	return "https://www.youtube.com/watch?v=" + id, nil
}
