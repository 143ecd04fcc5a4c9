package recordings

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rec4u/backend/internal/models"
	"github.com/rec4u/backend/pkg/storage"
)

type fakeBlobStore struct {
	saved   map[string]string // name -> contents
	deleted []string
	saveErr error
	delErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: make(map[string]string)}
}

func (f *fakeBlobStore) Save(r io.Reader, name string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, _ := io.ReadAll(r)
	f.saved[name] = string(data)
	return "/data/recordings/" + name, nil
}

func (f *fakeBlobStore) Delete(path string) (bool, error) {
	if f.delErr != nil {
		return false, f.delErr
	}
	f.deleted = append(f.deleted, path)
	name := strings.TrimPrefix(path, "/data/recordings/")
	_, ok := f.saved[name]
	delete(f.saved, name)
	return ok, nil
}

type fakeRecordingStore struct {
	rows      map[uuid.UUID]*models.Recording
	createErr error
}

func newFakeRecordingStore() *fakeRecordingStore {
	return &fakeRecordingStore{rows: make(map[uuid.UUID]*models.Recording)}
}

func (f *fakeRecordingStore) Create(_ context.Context, rec *models.Recording) error {
	if f.createErr != nil {
		return f.createErr
	}
	rec.ID = uuid.New()
	f.rows[rec.ID] = rec
	return nil
}

func (f *fakeRecordingStore) GetByID(_ context.Context, id, ownerID uuid.UUID) (*models.Recording, error) {
	rec, ok := f.rows[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (f *fakeRecordingStore) Delete(_ context.Context, id, ownerID uuid.UUID) (string, error) {
	rec, ok := f.rows[id]
	if !ok || rec.OwnerID != ownerID {
		return "", ErrNotFound
	}
	delete(f.rows, id)
	return rec.FilePath, nil
}

type fakeScheduler struct {
	jobs []uuid.UUID
}

func (f *fakeScheduler) Enqueue(recordingID uuid.UUID, _ string) {
	f.jobs = append(f.jobs, recordingID)
}

func TestUpload_TwoPhase(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	sched := &fakeScheduler{}
	svc := NewService(blobs, store, sched, nil)
	owner := uuid.New()

	result, err := svc.Upload(context.Background(), owner, "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.Equal(t, "processing", result.Status)
	assert.NotEqual(t, uuid.Nil, result.RecordingID)
	assert.Contains(t, result.FileLocation, "/recordings/file/")
	assert.True(t, strings.HasSuffix(result.FileLocation, ".mp4"))

	// Row exists immediately, metadata still null.
	rec, err := store.GetByID(context.Background(), result.RecordingID, owner)
	require.NoError(t, err)
	assert.Equal(t, "demo", rec.Title)
	assert.Nil(t, rec.Duration)
	assert.Nil(t, rec.Resolution)
	assert.Nil(t, rec.FileSize)
	assert.NotEqual(t, "clip.mp4", rec.Filename)

	// Blob written, exactly one extraction job scheduled.
	assert.Len(t, blobs.saved, 1)
	require.Len(t, sched.jobs, 1)
	assert.Equal(t, result.RecordingID, sched.jobs[0])
}

func TestUpload_InvalidType_NoSideEffects(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	sched := &fakeScheduler{}
	svc := NewService(blobs, store, sched, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), "demo", "clip.exe", "video/mp4",
		strings.NewReader("bytes"))
	require.ErrorIs(t, err, storage.ErrInvalidType)

	assert.Empty(t, blobs.saved, "no blob written")
	assert.Empty(t, store.rows, "no row created")
	assert.Empty(t, sched.jobs, "nothing scheduled")
}

func TestUpload_BlobFailure(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.saveErr = errors.New("disk full")
	store := newFakeRecordingStore()
	svc := NewService(blobs, store, &fakeScheduler{}, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.Error(t, err)
	assert.Empty(t, store.rows)
}

func TestUpload_CreateFailure_CleansUpBlob(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	store.createErr = errors.New("db down")
	sched := &fakeScheduler{}
	svc := NewService(blobs, store, sched, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.Error(t, err)

	assert.Empty(t, blobs.saved, "orphaned blob removed")
	assert.Empty(t, sched.jobs)
}

func TestDelete_RemovesRowAndBlob(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	svc := NewService(blobs, store, &fakeScheduler{}, nil)
	owner := uuid.New()

	result, err := svc.Upload(context.Background(), owner, "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), result.RecordingID, owner))

	_, err = store.GetByID(context.Background(), result.RecordingID, owner)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, blobs.saved)
}

func TestDelete_BlobFailureStillDeletesRow(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	svc := NewService(blobs, store, &fakeScheduler{}, nil)
	owner := uuid.New()

	result, err := svc.Upload(context.Background(), owner, "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.NoError(t, err)

	blobs.delErr = errors.New("permission denied")
	require.NoError(t, svc.Delete(context.Background(), result.RecordingID, owner))

	_, err = store.GetByID(context.Background(), result.RecordingID, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_CrossOwner(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	svc := NewService(blobs, store, &fakeScheduler{}, nil)
	owner := uuid.New()

	result, err := svc.Upload(context.Background(), owner, "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), result.RecordingID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByID(context.Background(), result.RecordingID, owner)
	assert.NoError(t, err, "other users cannot delete the recording")
}

func TestRescan(t *testing.T) {
	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	sched := &fakeScheduler{}
	svc := NewService(blobs, store, sched, nil)
	owner := uuid.New()

	result, err := svc.Upload(context.Background(), owner, "demo", "clip.mp4", "video/mp4",
		strings.NewReader("bytes"))
	require.NoError(t, err)
	require.Len(t, sched.jobs, 1)

	require.NoError(t, svc.Rescan(context.Background(), result.RecordingID, owner))
	assert.Len(t, sched.jobs, 2)

	// Once metadata exists, rescan is refused.
	d := 10.0
	store.rows[result.RecordingID].Duration = &d
	err = svc.Rescan(context.Background(), result.RecordingID, owner)
	assert.ErrorIs(t, err, ErrMetadataPresent)

	// Cross-owner rescan leaks nothing.
	err = svc.Rescan(context.Background(), result.RecordingID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
