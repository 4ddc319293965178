package ports

import (
	"context"
	"io"
)

// TempoSearcher defines the contract for BPM lookup and tempo-similarity
// search against an external song database.
type TempoSearcher interface {
	// TrackBPM returns the tempo of the best match for the given song title.
	TrackBPM(ctx context.Context, title string) (int, error)

	// SongsByBPM returns titles of songs whose tempo matches the given BPM.
	SongsByBPM(ctx context.Context, bpm int) ([]string, error)
}

// LinkResolver defines the contract for turning a song title into a
// playable watch link.
type LinkResolver interface {
	ResolveLink(ctx context.Context, title string) (string, error)
}

// StreamResolver defines the contract for resolving a watch link into a
// direct media stream URL.
type StreamResolver interface {
	ResolveAudioURL(ctx context.Context, watchURL string) (string, error)
	ResolveVideoURL(ctx context.Context, watchURL string) (string, error)
}

// StreamFetcher defines the contract for fetching a raw media stream.
type StreamFetcher interface {
	// Fetch retrieves the stream at the given URL.
	// Returns a ReadCloser that the caller must close.
	Fetch(ctx context.Context, streamURL string) (io.ReadCloser, error)
}

// Downloader defines the contract for retrieving media streams to local
// storage. Both operations return the path of the written file.
type Downloader interface {
	FetchAudio(ctx context.Context, link, destDir string) (string, error)
	FetchVideo(ctx context.Context, link, destDir string) (string, error)
}

// Transcoder defines the contract for merging an audio stream and a video
// stream into one output file. On failure the returned error carries the
// underlying tool's diagnostic text.
type Transcoder interface {
	Merge(ctx context.Context, videoFile, audioFile, outputFile string) error
}

// MediaStore defines the contract for persisting session artifacts.
type MediaStore interface {
	// EnsureSessionDir creates the session directory structure and returns
	// its path.
	EnsureSessionDir(sessionID string) (string, error)

	// SaveStream writes the stream to a file inside dir and returns the
	// path of the written file.
	SaveStream(ctx context.Context, reader io.Reader, dir, filename string) (string, error)

	// ListOutputs returns the merged output files present in dir.
	ListOutputs(dir string) ([]string, error)
}
