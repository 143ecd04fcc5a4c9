package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidType is returned when an upload's extension or declared content
// type is not an allowed video format, or when the two disagree.
var ErrInvalidType = errors.New("unsupported video type")

// AllowedVideoExtensions maps each accepted container extension to its
// canonical MIME type. The declared content type of an upload must match the
// canonical type for its extension.
var AllowedVideoExtensions = map[string]string{
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
}

// ValidateUpload checks an uploaded file's extension and declared content
// type against the video allow-list. Both must pass and agree; client-declared
// types that contradict the extension are rejected without content sniffing.
func ValidateUpload(originalName, contentType string) error {
	ext := extensionOf(originalName)
	want, ok := AllowedVideoExtensions[ext]
	if !ok {
		return fmt.Errorf("%w: extension %q", ErrInvalidType, ext)
	}
	if !strings.EqualFold(contentType, want) {
		return fmt.Errorf("%w: content type %q", ErrInvalidType, contentType)
	}
	return nil
}

// GenerateStorageName produces a collision-resistant storage filename:
// {UTC timestamp to seconds}_{128-bit hex}.{lowercased original extension}.
// Client-supplied names are never reused, so uploads cannot traverse paths or
// overwrite each other; the timestamp prefix keeps names sortable by creation.
func GenerateStorageName(originalName string) string {
	u := uuid.New()
	return fmt.Sprintf("%s_%s.%s",
		time.Now().UTC().Format("20060102150405"),
		hex.EncodeToString(u[:]),
		extensionOf(originalName),
	)
}

// ContentTypeFor returns the canonical video MIME type for a stored filename,
// or application/octet-stream for anything outside the allow-list.
func ContentTypeFor(filename string) string {
	if mime, ok := AllowedVideoExtensions[extensionOf(filename)]; ok {
		return mime
	}
	return "application/octet-stream"
}

func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
