package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songflong/internal/adapters/downloader"
	"songflong/internal/adapters/localstorage"
)

// stubResolver maps every watch link to a fixed stream URL.
type stubResolver struct {
	streamURL string
	err       error
}

func (r *stubResolver) ResolveAudioURL(ctx context.Context, watchURL string) (string, error) {
	return r.streamURL, r.err
}

func (r *stubResolver) ResolveVideoURL(ctx context.Context, watchURL string) (string, error) {
	return r.streamURL, r.err
}

func TestFetchAudioWritesStreamToDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(&stubResolver{streamURL: srv.URL}, downloader.NewHTTPFetcher(), localstorage.NewLocalStorage(dir))

	path, err := d.FetchAudio(context.Background(), "https://www.youtube.com/watch?v=x", dir)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "audio-"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "audio payload", string(data))
}

func TestFetchVideoNamesAreUnique(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(&stubResolver{streamURL: srv.URL}, downloader.NewHTTPFetcher(), localstorage.NewLocalStorage(dir))

	first, err := d.FetchVideo(context.Background(), "link", dir)
	require.NoError(t, err)
	second, err := d.FetchVideo(context.Background(), "link", dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestFetchAudioPropagatesResolveFailure(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(&stubResolver{err: errors.New("no formats")}, downloader.NewHTTPFetcher(), localstorage.NewLocalStorage(dir))

	_, err := d.FetchAudio(context.Background(), "link", dir)
	assert.ErrorContains(t, err, "resolve audio stream")
}
