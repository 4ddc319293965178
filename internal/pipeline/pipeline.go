package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"songflong/internal/core/domain"
	"songflong/internal/core/ports"
)

// DefaultWorkers is the pool size used when Config leaves Workers unset.
const DefaultWorkers = 2

// Config carries the collaborators and sizing for a Pipeline.
type Config struct {
	// Workers is the fixed pool size. Zero means DefaultWorkers.
	Workers    int
	Downloader ports.Downloader
	Transcoder ports.Transcoder
	Logger     logrus.FieldLogger
}

// Pipeline fans download-then-transcode jobs out across a fixed pool of
// workers sharing one WorkQueue. The pool is spawned at construction,
// before any job is enqueued, and never grows or shrinks afterwards.
//
// A Pipeline serves one batch: construct, Submit, Close, discard. Close
// waits for the submitted jobs; Shutdown additionally stops the workers for
// hosts that outlive the batch.
type Pipeline struct {
	queue      *WorkQueue
	downloader ports.Downloader
	transcoder ports.Transcoder
	log        logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Pipeline and starts its workers.
func New(cfg Config) *Pipeline {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		queue:      NewWorkQueue(),
		downloader: cfg.Downloader,
		transcoder: cfg.Transcoder,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Submit enqueues one job per candidate, all sharing the seed video file
// and the download directory. It never blocks.
func (p *Pipeline) Submit(candidates []domain.Candidate, videoFile, downloadDir string) {
	for _, c := range candidates {
		p.log.WithFields(logrus.Fields{"title": c.Title, "link": c.Link}).Info("queueing link")
		p.queue.Enqueue(domain.Job{
			VideoFile:   videoFile,
			Title:       c.Title,
			Link:        c.Link,
			DownloadDir: downloadDir,
		})
	}
}

// Close blocks until every submitted job has been processed, successfully
// or not. Workers stay alive, idle on the queue, until Shutdown.
func (p *Pipeline) Close() {
	p.queue.Join()
}

// Shutdown stops the worker pool: pending jobs are drained, in-flight
// collaborator calls are cancelled, and Shutdown returns once every worker
// has exited.
func (p *Pipeline) Shutdown() {
	p.cancel()
	p.queue.Close()
	p.wg.Wait()
}

func (p *Pipeline) worker(id int) {
	defer p.wg.Done()

	log := p.log.WithField("worker", id)
	log.Debug("worker started")
	for {
		job, ok := p.queue.Dequeue()
		if !ok {
			log.Debug("worker stopped")
			return
		}
		p.process(log, job)
	}
}

// process runs one job inside a per-job error boundary: a failed download
// or merge is logged and the worker moves on to its next dequeue. The
// barrier decrement is deferred so it lands on every path.
func (p *Pipeline) process(log logrus.FieldLogger, job domain.Job) {
	defer p.queue.MarkDone()

	log = log.WithField("title", job.Title)

	audioFile, err := p.downloader.FetchAudio(p.ctx, job.Link, job.DownloadDir)
	if err != nil {
		log.WithError(err).Error("audio download failed")
		return
	}

	outputFile := filepath.Join(job.DownloadDir, OutputName())
	if err := p.transcoder.Merge(p.ctx, job.VideoFile, audioFile, outputFile); err != nil {
		log.WithError(err).Error("transcode failed")
		return
	}

	log.WithField("output", outputFile).Info("finished transcribing")
}

// OutputName returns a collision-resistant file name for one merged output.
// Concurrently completing jobs share a download directory, so the name
// embeds a fresh UUID.
func OutputName() string {
	return fmt.Sprintf("output-%s.mp4", uuid.New())
}
