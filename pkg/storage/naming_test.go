package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantErr     bool
	}{
		{"mp4", "clip.mp4", "video/mp4", false},
		{"webm", "clip.webm", "video/webm", false},
		{"mov", "clip.mov", "video/quicktime", false},
		{"avi", "clip.avi", "video/x-msvideo", false},
		{"uppercase extension", "CLIP.MP4", "video/mp4", false},
		{"content type case insensitive", "clip.mp4", "VIDEO/MP4", false},
		{"disallowed extension", "clip.mkv", "video/mp4", true},
		{"disallowed content type", "clip.mp4", "video/x-matroska", true},
		{"valid pair that disagrees", "clip.mp4", "video/webm", true},
		{"reversed valid pair", "clip.webm", "video/mp4", true},
		{"audio content type", "clip.mp4", "audio/mpeg", true},
		{"no extension", "clip", "video/mp4", true},
		{"empty content type", "clip.mp4", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.contentType)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidType)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGenerateStorageName_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		name := GenerateStorageName("clip.mp4")
		_, dup := seen[name]
		require.False(t, dup, "duplicate storage name %q", name)
		seen[name] = struct{}{}
	}
}

func TestGenerateStorageName_Shape(t *testing.T) {
	name := GenerateStorageName("My Screen Capture.MOV")
	assert.True(t, strings.HasSuffix(name, ".mov"), "extension lowercased and preserved: %q", name)

	parts := strings.SplitN(strings.TrimSuffix(name, ".mov"), "_", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 14, "UTC timestamp to seconds")
	assert.Len(t, parts[1], 32, "128-bit hex")
	assert.NotContains(t, name, "My Screen Capture", "client name never reused")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "video/quicktime", ContentTypeFor("a.mov"))
	assert.Equal(t, "video/mp4", ContentTypeFor("a.mp4"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.bin"))
}
