// Package queue provides the in-process job queue feeding the metadata
// extraction workers. Jobs live only in memory: if the process exits before a
// job runs, the recording simply keeps null metadata. Durability would need a
// persisted job table and is an extension point, not built here.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExtractJob asks a worker to extract media metadata for one stored recording.
// Each upload schedules exactly one, strictly after its blob and row exist.
type ExtractJob struct {
	ID          uuid.UUID
	RecordingID uuid.UUID
	FilePath    string
	CreatedAt   time.Time
}

// Queue is a bounded in-memory job queue.
type Queue struct {
	jobs   chan ExtractJob
	logger *zap.Logger
}

// New creates a queue holding at most size pending jobs.
func New(size int, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 64
	}
	return &Queue{jobs: make(chan ExtractJob, size), logger: logger}
}

// Enqueue schedules an extraction job without blocking the caller. Scheduling
// is best-effort: when the queue is full the job is dropped and logged, and
// the recording keeps null metadata until a re-scan is requested.
func (q *Queue) Enqueue(recordingID uuid.UUID, filePath string) {
	job := ExtractJob{
		ID:          uuid.New(),
		RecordingID: recordingID,
		FilePath:    filePath,
		CreatedAt:   time.Now(),
	}
	select {
	case q.jobs <- job:
		q.logger.Debug("enqueued extraction job",
			zap.String("job_id", job.ID.String()),
			zap.String("recording_id", recordingID.String()))
	default:
		q.logger.Warn("metadata queue full, job dropped",
			zap.String("recording_id", recordingID.String()))
	}
}

// Dequeue blocks until a job is available or ctx is done. The second return
// is false when the context ended.
func (q *Queue) Dequeue(ctx context.Context) (ExtractJob, bool) {
	select {
	case <-ctx.Done():
		return ExtractJob{}, false
	case job := <-q.jobs:
		return job, true
	}
}

// Len reports the number of pending jobs.
func (q *Queue) Len() int { return len(q.jobs) }
