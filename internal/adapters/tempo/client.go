package tempo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.getsong.co"

	// The tempo index returns large result sets; anything past this adds
	// little variety to a session.
	maxCandidates = 25
)

// Client implements ports.TempoSearcher against the GetSongBPM REST API.
// Requests go through a shared rate limiter to stay inside the API's usage
// policy.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Client.
// Reads the API key from the SONGBPM_API_KEY environment variable.
func NewClient() (*Client, error) {
	key := os.Getenv("SONGBPM_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("SONGBPM_API_KEY environment variable not set")
	}
	return &Client{
		apiKey:  key,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}, nil
}

type artist struct {
	Name string `json:"name"`
}

type searchResponse struct {
	Search []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Artist artist `json:"artist"`
	} `json:"search"`
}

type songResponse struct {
	Song struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Tempo string `json:"tempo"`
	} `json:"song"`
}

type tempoResponse struct {
	Tempo []struct {
		SongTitle string `json:"song_title"`
		Artist    artist `json:"artist"`
	} `json:"tempo"`
}

// TrackBPM returns the tempo of the best search match for title.
func (c *Client) TrackBPM(ctx context.Context, title string) (int, error) {
	var search searchResponse
	query := url.Values{"type": {"song"}, "lookup": {title}}
	if err := c.get(ctx, "/search/", query, &search); err != nil {
		return 0, fmt.Errorf("failed to search for %q: %w", title, err)
	}
	if len(search.Search) == 0 {
		return 0, fmt.Errorf("no song found for %q", title)
	}

	var song songResponse
	if err := c.get(ctx, "/song/", url.Values{"id": {search.Search[0].ID}}, &song); err != nil {
		return 0, fmt.Errorf("failed to look up song %s: %w", search.Search[0].ID, err)
	}

	bpm, err := strconv.Atoi(song.Song.Tempo)
	if err != nil {
		return 0, fmt.Errorf("unparseable tempo %q for %q", song.Song.Tempo, title)
	}
	return bpm, nil
}

// SongsByBPM returns "title artist" strings for songs matching the given
// tempo, capped at maxCandidates.
func (c *Client) SongsByBPM(ctx context.Context, bpm int) ([]string, error) {
	var matches tempoResponse
	if err := c.get(ctx, "/tempo/", url.Values{"bpm": {strconv.Itoa(bpm)}}, &matches); err != nil {
		return nil, fmt.Errorf("failed to query tempo %d: %w", bpm, err)
	}

	titles := make([]string, 0, len(matches.Tempo))
	for _, m := range matches.Tempo {
		if len(titles) == maxCandidates {
			break
		}
		titles = append(titles, m.SongTitle+" "+m.Artist.Name)
	}
	return titles, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	query.Set("api_key", c.apiKey)
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
