package domain

import "time"

// Candidate is a tempo-matched song paired with its resolved watch link.
type Candidate struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Job is one unit of download-then-transcode work. VideoFile is the shared
// seed video: every job derived from the same session points at the same
// read-only file. Jobs are immutable once enqueued.
type Job struct {
	VideoFile   string
	Title       string
	Link        string
	DownloadDir string
}

// SessionResult holds the outcome of a completed generation session.
type SessionResult struct {
	SessionID   string
	SongTitle   string
	BPM         int
	SessionDir  string
	Candidates  int
	OutputFiles []string
	CompletedAt time.Time
}
