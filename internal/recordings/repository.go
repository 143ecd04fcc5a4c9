package recordings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rec4u/backend/internal/models"
)

// ErrNotFound is returned when no recording matches the id for the given
// owner. It deliberately does not distinguish "exists but not yours" from
// "does not exist".
var ErrNotFound = errors.New("recording not found")

const recordingColumns = `id, title, filename, file_path, owner_id, duration, resolution, file_size, created_at, updated_at`

// Repository handles recording persistence. Every owner-facing query filters
// by owner_id server-side; client-supplied owner parameters are never trusted.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a recordings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new recording with null metadata fields.
func (r *Repository) Create(ctx context.Context, rec *models.Recording) error {
	const q = `INSERT INTO recordings (title, filename, file_path, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, rec.Title, rec.Filename, rec.FilePath, rec.OwnerID).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

// GetByID returns an owner's recording by ID.
func (r *Repository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Recording, error) {
	const q = `SELECT ` + recordingColumns + ` FROM recordings WHERE id = $1 AND owner_id = $2`
	return r.scanRecording(r.pool.QueryRow(ctx, q, id, ownerID))
}

// GetByFilename returns an owner's recording by its stored filename.
func (r *Repository) GetByFilename(ctx context.Context, ownerID uuid.UUID, filename string) (*models.Recording, error) {
	const q = `SELECT ` + recordingColumns + ` FROM recordings WHERE filename = $1 AND owner_id = $2`
	return r.scanRecording(r.pool.QueryRow(ctx, q, filename, ownerID))
}

// ListByOwner returns an owner's recordings, newest first (stable order).
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recording, error) {
	const q = `SELECT ` + recordingColumns + ` FROM recordings
		WHERE owner_id = $1 ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.Recording, 0)
	for rows.Next() {
		var rec models.Recording
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Filename, &rec.FilePath, &rec.OwnerID,
			&rec.Duration, &rec.Resolution, &rec.FileSize, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Rename updates only the title of an owner's recording.
func (r *Repository) Rename(ctx context.Context, id, ownerID uuid.UUID, title string) error {
	const q = `UPDATE recordings SET title = $1, updated_at = now() WHERE id = $2 AND owner_id = $3`
	tag, err := r.pool.Exec(ctx, q, title, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owner's recording row and returns the blob path it
// referenced so the caller can remove the file.
func (r *Repository) Delete(ctx context.Context, id, ownerID uuid.UUID) (string, error) {
	const q = `DELETE FROM recordings WHERE id = $1 AND owner_id = $2 RETURNING file_path`
	var path string
	err := r.pool.QueryRow(ctx, q, id, ownerID).Scan(&path)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// UpdateMetadata writes all three metadata fields in a single update. Returns
// false when the row no longer exists (deleted while extraction was pending),
// which callers treat as a harmless no-op.
func (r *Repository) UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.Metadata) (bool, error) {
	const q = `UPDATE recordings
		SET duration = $1, resolution = $2, file_size = $3, updated_at = now()
		WHERE id = $4`
	tag, err := r.pool.Exec(ctx, q, meta.DurationSeconds, meta.Resolution, meta.SizeBytes, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) scanRecording(row pgx.Row) (*models.Recording, error) {
	var rec models.Recording
	err := row.Scan(&rec.ID, &rec.Title, &rec.Filename, &rec.FilePath, &rec.OwnerID,
		&rec.Duration, &rec.Resolution, &rec.FileSize, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
