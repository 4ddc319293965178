package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"songflong/internal/core/domain"
	"songflong/internal/core/ports"
	"songflong/internal/pipeline"
)

// Generator coordinates one generation session: tempo search, link
// resolution, the seed video download, and the concurrent
// download-and-transcode pipeline.
type Generator struct {
	tempo      ports.TempoSearcher
	links      ports.LinkResolver
	downloader ports.Downloader
	transcoder ports.Transcoder
	store      ports.MediaStore
	workers    int
	log        logrus.FieldLogger
}

// NewGenerator creates a new Generator. workers sizes the pipeline pool;
// zero selects the pipeline default.
func NewGenerator(
	tempo ports.TempoSearcher,
	links ports.LinkResolver,
	dl ports.Downloader,
	transcoder ports.Transcoder,
	store ports.MediaStore,
	workers int,
	log logrus.FieldLogger,
) *Generator {
	return &Generator{
		tempo:      tempo,
		links:      links,
		downloader: dl,
		transcoder: transcoder,
		store:      store,
		workers:    workers,
		log:        log,
	}
}

// Run generates tempo-matched videos for songTitle. It blocks until every
// candidate has been processed; individual candidate failures are logged
// and skipped, never aborting the session.
func (g *Generator) Run(ctx context.Context, songTitle string) (*domain.SessionResult, error) {
	sessionID := uuid.New().String()
	log := g.log.WithField("session", sessionID)
	log.WithField("song", songTitle).Info("starting session")

	sessionDir, err := g.store.EnsureSessionDir(sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "create session directory")
	}

	bpm, err := g.tempo.TrackBPM(ctx, songTitle)
	if err != nil {
		return nil, errors.Wrapf(err, "look up BPM for %q", songTitle)
	}
	log.WithField("bpm", bpm).Info("resolved seed tempo")

	titles, err := g.tempo.SongsByBPM(ctx, bpm)
	if err != nil {
		return nil, errors.Wrapf(err, "find songs at %d BPM", bpm)
	}

	seedLink, err := g.links.ResolveLink(ctx, songTitle)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve seed link for %q", songTitle)
	}

	candidates := g.resolveCandidates(ctx, log, titles)
	log.WithField("candidates", len(candidates)).Info("resolved candidate links")

	videoFile, err := g.downloader.FetchVideo(ctx, seedLink, sessionDir)
	if err != nil {
		return nil, errors.Wrap(err, "download seed video")
	}
	log.WithField("video", videoFile).Info("downloaded seed video")

	p := pipeline.New(pipeline.Config{
		Workers:    g.workers,
		Downloader: g.downloader,
		Transcoder: g.transcoder,
		Logger:     log,
	})
	defer p.Shutdown()

	p.Submit(candidates, videoFile, sessionDir)
	p.Close()

	outputs, err := g.store.ListOutputs(sessionDir)
	if err != nil {
		return nil, errors.Wrap(err, "list session outputs")
	}

	log.WithField("outputs", len(outputs)).Info("session complete")
	return &domain.SessionResult{
		SessionID:   sessionID,
		SongTitle:   songTitle,
		BPM:         bpm,
		SessionDir:  sessionDir,
		Candidates:  len(candidates),
		OutputFiles: outputs,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// resolveCandidates maps song titles to watch links, dropping titles that
// fail to resolve.
func (g *Generator) resolveCandidates(ctx context.Context, log logrus.FieldLogger, titles []string) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(titles))
	for _, title := range titles {
		link, err := g.links.ResolveLink(ctx, title)
		if err != nil {
			log.WithError(err).WithField("title", title).Warn("skipping unresolvable candidate")
			continue
		}
		candidates = append(candidates, domain.Candidate{Title: title, Link: link})
	}
	return candidates
}
