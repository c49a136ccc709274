// Package replay plays back pose recordings as a video source and detector.
//
// A recording is a YAML document:
//
//	fps: 30
//	frames:
//	  - bodies:
//	      - [{x: 0.31, y: 0.2, z: -0.1}, ...]
//	      - [...]
//
// Each frame lists the landmark sets the pose model reported for it.
package replay

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/dancercade/internal/domain/pose"
)

// Recording is a decoded pose recording.
type Recording struct {
	FPS    float64         `yaml:"fps" json:"fps"`
	Frames []RecordedFrame `yaml:"frames" json:"frames"`
}

// RecordedFrame is one frame of a recording.
type RecordedFrame struct {
	Bodies []pose.LandmarkSet `yaml:"bodies" json:"bodies"`
}

// FrameDuration is the media time between consecutive frames.
func (r *Recording) FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / r.FPS)
}

// Validate checks the frame rate and that there is something to play.
// Landmark set shapes are left to the pipeline, which drops bad frames
// individually.
func (r *Recording) Validate() error {
	if r.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidRecording, r.FPS)
	}
	if r.FrameDuration() <= 0 {
		return fmt.Errorf("%w: fps %v is too high for a nanosecond clock", ErrInvalidRecording, r.FPS)
	}
	if len(r.Frames) == 0 {
		return ErrEmptyRecording
	}
	return nil
}

// LoadYAML decodes and validates a recording from r.
func LoadYAML(r io.Reader) (*Recording, error) {
	var rec Recording
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecording, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Open loads the recording at path.
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	rec, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", path, err)
	}
	return rec, nil
}
