package media

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"songflong/internal/core/ports"
)

// Downloader implements ports.Downloader by resolving a watch link to a
// direct stream URL, fetching the stream, and persisting it under the
// destination directory. File names embed a fresh UUID so concurrent
// downloads into a shared directory never collide.
type Downloader struct {
	resolver ports.StreamResolver
	fetcher  ports.StreamFetcher
	store    ports.MediaStore
}

// NewDownloader creates a new Downloader.
func NewDownloader(resolver ports.StreamResolver, fetcher ports.StreamFetcher, store ports.MediaStore) *Downloader {
	return &Downloader{
		resolver: resolver,
		fetcher:  fetcher,
		store:    store,
	}
}

// FetchAudio retrieves the audio stream behind link into destDir and
// returns the local file path.
func (d *Downloader) FetchAudio(ctx context.Context, link, destDir string) (string, error) {
	streamURL, err := d.resolver.ResolveAudioURL(ctx, link)
	if err != nil {
		return "", errors.Wrap(err, "resolve audio stream")
	}
	return d.save(ctx, streamURL, destDir, fmt.Sprintf("audio-%s.m4a", uuid.New()))
}

// FetchVideo retrieves the video stream behind link into destDir and
// returns the local file path.
func (d *Downloader) FetchVideo(ctx context.Context, link, destDir string) (string, error) {
	streamURL, err := d.resolver.ResolveVideoURL(ctx, link)
	if err != nil {
		return "", errors.Wrap(err, "resolve video stream")
	}
	return d.save(ctx, streamURL, destDir, fmt.Sprintf("video-%s.mp4", uuid.New()))
}

func (d *Downloader) save(ctx context.Context, streamURL, destDir, filename string) (string, error) {
	body, err := d.fetcher.Fetch(ctx, streamURL)
	if err != nil {
		return "", errors.Wrap(err, "fetch stream")
	}
	defer body.Close()

	path, err := d.store.SaveStream(ctx, body, destDir, filename)
	if err != nil {
		return "", errors.Wrap(err, "save stream")
	}
	return path, nil
}
