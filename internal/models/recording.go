package models

import (
	"time"

	"github.com/google/uuid"
)

// Recording is one uploaded screen recording. Duration, Resolution and
// FileSize are filled in by the background metadata worker after upload;
// until then they are null, which is not an error state.
type Recording struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"-"`
	OwnerID    uuid.UUID `json:"-"`
	Duration   *float64  `json:"duration"`
	Resolution *string   `json:"resolution"`
	FileSize   *int64    `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Metadata holds the three extracted media attributes. They are written to a
// recording row together, in a single update.
type Metadata struct {
	DurationSeconds float64
	Resolution      string
	SizeBytes       int64
}
