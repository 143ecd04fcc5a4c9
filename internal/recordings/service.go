package recordings

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rec4u/backend/internal/models"
	"github.com/rec4u/backend/pkg/storage"
)

// ErrMetadataPresent is returned by Rescan when the recording already has
// extracted metadata.
var ErrMetadataPresent = errors.New("metadata already extracted")

// BlobStore persists raw recording bytes.
type BlobStore interface {
	Save(r io.Reader, name string) (string, error)
	Delete(path string) (bool, error)
}

// RecordingStore is the repository surface the upload pipeline needs.
type RecordingStore interface {
	Create(ctx context.Context, rec *models.Recording) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Recording, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (string, error)
}

// Scheduler defers metadata extraction outside the request context.
type Scheduler interface {
	Enqueue(recordingID uuid.UUID, filePath string)
}

// UploadResult is returned to the caller as soon as the blob and row are
// durable, before metadata extraction has run.
type UploadResult struct {
	RecordingID  uuid.UUID `json:"recording_id"`
	FileLocation string    `json:"file_location"`
	Status       string    `json:"status"`
}

// Service orchestrates the two-phase upload pipeline: validate, persist the
// blob, insert the row with null metadata, then schedule extraction as a
// deferred unit of work the caller never waits on.
type Service struct {
	blobs     BlobStore
	store     RecordingStore
	scheduler Scheduler
	logger    *zap.Logger
}

// NewService creates the upload pipeline service.
func NewService(blobs BlobStore, store RecordingStore, scheduler Scheduler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{blobs: blobs, store: store, scheduler: scheduler, logger: logger}
}

// Upload runs the synchronous half of the pipeline. Validation failure leaves
// no side effects: no blob is written and no row is created. On success the
// recording is listed immediately with null metadata, and exactly one
// extraction job is scheduled for it.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, title, originalName, contentType string, r io.Reader) (*UploadResult, error) {
	if err := storage.ValidateUpload(originalName, contentType); err != nil {
		return nil, err
	}

	name := storage.GenerateStorageName(originalName)
	path, err := s.blobs.Save(r, name)
	if err != nil {
		return nil, fmt.Errorf("save blob: %w", err)
	}

	rec := &models.Recording{
		Title:    title,
		Filename: name,
		FilePath: path,
		OwnerID:  ownerID,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		// Row never existed; remove the orphaned blob.
		if _, delErr := s.blobs.Delete(path); delErr != nil {
			s.logger.Error("orphan blob cleanup failed", zap.Error(delErr), zap.String("path", path))
		}
		return nil, fmt.Errorf("create recording: %w", err)
	}

	// Scheduled strictly after blob and row exist.
	s.scheduler.Enqueue(rec.ID, path)

	return &UploadResult{
		RecordingID:  rec.ID,
		FileLocation: "/recordings/file/" + name,
		Status:       "processing",
	}, nil
}

// Delete removes the recording row and its blob together. The row goes first
// so the recording is never listed without its file; blob removal is
// best-effort and its failure is logged, not returned.
func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	path, err := s.store.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if _, err := s.blobs.Delete(path); err != nil {
		s.logger.Error("blob delete failed", zap.Error(err),
			zap.String("recording_id", id.String()), zap.String("path", path))
	}
	return nil
}

// Rescan re-schedules metadata extraction for an owned recording whose
// metadata is still null (e.g. after a failed extraction).
func (s *Service) Rescan(ctx context.Context, id, ownerID uuid.UUID) error {
	rec, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if rec.Duration != nil {
		return ErrMetadataPresent
	}
	s.scheduler.Enqueue(rec.ID, rec.FilePath)
	return nil
}
