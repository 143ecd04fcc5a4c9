// Package worker runs the deferred half of the upload pipeline: metadata
// extraction for recordings that have already been stored and acknowledged.
package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rec4u/backend/internal/media"
	"github.com/rec4u/backend/internal/models"
	"github.com/rec4u/backend/pkg/queue"
)

// MetadataStore is the repository surface the worker needs.
type MetadataStore interface {
	UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.Metadata) (bool, error)
}

// JobSource yields extraction jobs until its context ends.
type JobSource interface {
	Dequeue(ctx context.Context) (queue.ExtractJob, bool)
}

// MetadataProcessor consumes extraction jobs: probe the stored file, then
// write duration, resolution and size to the recording row in one update.
// Failures never escape into a request context and never stop the pool.
type MetadataProcessor struct {
	store     MetadataStore
	extractor media.Extractor
	jobs      JobSource
	logger    *zap.Logger
}

// NewMetadataProcessor creates a metadata extraction processor.
func NewMetadataProcessor(store MetadataStore, extractor media.Extractor, jobs JobSource, logger *zap.Logger) *MetadataProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataProcessor{store: store, extractor: extractor, jobs: jobs, logger: logger}
}

// Process executes one extraction job. An unreadable file leaves the row with
// null metadata permanently; there is no automatic retry. A row deleted while
// the job was pending makes the update a silent no-op.
func (p *MetadataProcessor) Process(ctx context.Context, job queue.ExtractJob) {
	meta, err := p.extractor.Extract(ctx, job.FilePath)
	if err != nil {
		p.logger.Warn("metadata extraction failed",
			zap.Error(err),
			zap.String("recording_id", job.RecordingID.String()),
			zap.String("path", job.FilePath))
		return
	}

	updated, err := p.store.UpdateMetadata(ctx, job.RecordingID, *meta)
	if err != nil {
		p.logger.Error("metadata update failed",
			zap.Error(err),
			zap.String("recording_id", job.RecordingID.String()))
		return
	}
	if !updated {
		p.logger.Debug("recording deleted before metadata update",
			zap.String("recording_id", job.RecordingID.String()))
		return
	}

	p.logger.Info("metadata extracted",
		zap.String("recording_id", job.RecordingID.String()),
		zap.Float64("duration", meta.DurationSeconds),
		zap.String("resolution", meta.Resolution),
		zap.Int64("size_bytes", meta.SizeBytes))
}

// Run starts workers goroutines consuming the queue and blocks until ctx is
// done and all workers have drained their in-flight job.
func (p *MetadataProcessor) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, ok := p.jobs.Dequeue(ctx)
				if !ok {
					return
				}
				p.Process(ctx, job)
			}
		}()
	}
	wg.Wait()
	p.logger.Info("metadata workers stopped")
}
