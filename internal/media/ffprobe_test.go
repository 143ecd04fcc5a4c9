package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbe = `{
  "streams": [
    {"codec_type": "audio", "sample_rate": "48000"},
    {"codec_type": "video", "width": 1280, "height": 720}
  ],
  "format": {"duration": "10.004000"}
}`

func TestParseProbeOutput(t *testing.T) {
	meta, err := parseProbeOutput([]byte(sampleProbe))
	require.NoError(t, err)
	assert.Equal(t, 10.0, meta.DurationSeconds)
	assert.Equal(t, "1280x720", meta.Resolution)
}

func TestParseProbeOutput_RoundsToTwoDecimals(t *testing.T) {
	meta, err := parseProbeOutput([]byte(`{
		"streams": [{"codec_type": "video", "width": 1920, "height": 1080}],
		"format": {"duration": "3.14159"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 3.14, meta.DurationSeconds)
	assert.Equal(t, "1920x1080", meta.Resolution)
}

func TestParseProbeOutput_Unreadable(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"not json", "ffprobe exploded"},
		{"no video stream", `{"streams":[{"codec_type":"audio"}],"format":{"duration":"5"}}`},
		{"no duration", `{"streams":[{"codec_type":"video","width":640,"height":480}],"format":{}}`},
		{"zero dimensions", `{"streams":[{"codec_type":"video","width":0,"height":0}],"format":{"duration":"5"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseProbeOutput([]byte(tt.out))
			assert.ErrorIs(t, err, ErrUnreadableMedia)
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	p := NewFFProbe("")
	_, err := p.Extract(context.Background(), "/nonexistent/clip.mp4")
	assert.Error(t, err)
}
