// Package media extracts container metadata from stored recordings by running
// ffprobe, the same way the platform's other media tooling shells out to the
// ffmpeg family.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"

	"github.com/rec4u/backend/internal/models"
)

// ErrUnreadableMedia is returned when a stored file cannot be parsed as a
// video container (corrupt upload, unsupported codec inside an allowed
// container).
var ErrUnreadableMedia = errors.New("unreadable media")

// Extractor computes media metadata for a stored recording file.
type Extractor interface {
	Extract(ctx context.Context, path string) (*models.Metadata, error)
}

// FFProbe extracts metadata by invoking the ffprobe binary.
type FFProbe struct {
	binary string
}

// NewFFProbe returns an extractor using the given ffprobe binary (empty uses
// "ffprobe" from PATH).
func NewFFProbe(binary string) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary}
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Extract probes the container at path and returns duration (seconds, two
// decimal places), resolution of the primary video stream ("WxH"), and the
// file's actual byte size from the filesystem rather than container headers.
// The ffprobe process is always reaped, success or failure.
func (p *FFProbe) Extract(ctx context.Context, path string) (*models.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe: %v", ErrUnreadableMedia, err)
	}

	meta, err := parseProbeOutput(out)
	if err != nil {
		return nil, err
	}
	meta.SizeBytes = info.Size()
	return meta, nil
}

func parseProbeOutput(out []byte) (*models.Metadata, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe output: %v", ErrUnreadableMedia, err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: no container duration", ErrUnreadableMedia)
	}

	var video *probeStream
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == "video" {
			video = &probe.Streams[i]
			break
		}
	}
	if video == nil || video.Width <= 0 || video.Height <= 0 {
		return nil, fmt.Errorf("%w: no video stream", ErrUnreadableMedia)
	}

	return &models.Metadata{
		DurationSeconds: math.Round(duration*100) / 100,
		Resolution:      fmt.Sprintf("%dx%d", video.Width, video.Height),
	}, nil
}
