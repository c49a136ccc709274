// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/dancercade/internal/domain/identity"
	"github.com/okian/dancercade/internal/domain/pose"
)

// Detector adapters selectable with the detector key.
const (
	DetectorPush      = "push"
	DetectorReplay    = "replay"
	DetectorSynthetic = "synthetic"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PublicURL is the externally reachable base URL encoded in the join QR
	// code. Empty derives it from the request.
	PublicURL string `koanf:"public_url"`

	// Detector selects where frames and detections come from:
	// push, replay or synthetic.
	Detector string `koanf:"detector"`

	// ReplayPath is the recording played by the replay detector.
	ReplayPath string `koanf:"replay_path"`

	// ReplayLoop restarts the recording when it ends.
	ReplayLoop bool `koanf:"replay_loop"`

	// FrameIntervalMS is the frame loop period.
	FrameIntervalMS int `koanf:"frame_interval_ms"`

	// IngestQueueSize bounds the queue of pushed detections.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// JointCount is the expected landmark count per body.
	JointCount int `koanf:"joint_count"`

	// IdentityAnchorJoint is the joint whose x decides player roles.
	IdentityAnchorJoint int `koanf:"identity_anchor_joint"`

	// Midline splits the frame for lone or crowded bodies.
	Midline float64 `koanf:"midline"`

	// SingleBodyMode labels a lone body: first or midline.
	SingleBodyMode string `koanf:"single_body_mode"`

	// ColorSingleBody draws a lone body in its role color.
	ColorSingleBody bool `koanf:"color_single_body"`

	// MirrorAnchorJoint is the joint whose offset aligns the two bodies.
	MirrorAnchorJoint int `koanf:"mirror_anchor_joint"`

	// LimbJoints are the mirrored joint indices.
	LimbJoints []int `koanf:"limb_joints"`

	// Palette holds the left and right player colors.
	Palette []string `koanf:"palette"`

	// AutoStart starts the game and the stream at boot.
	AutoStart bool `koanf:"auto_start"`
}

// New creates a Config with defaults for the MediaPipe pose model.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Detector:            DetectorPush,
		FrameIntervalMS:     16,
		IngestQueueSize:     128,
		JointCount:          pose.JointCount,
		IdentityAnchorJoint: pose.DefaultIdentityAnchor,
		Midline:             pose.DefaultMidline,
		SingleBodyMode:      identity.SingleFirstRole.String(),
		MirrorAnchorJoint:   pose.DefaultMirrorAnchor,
		LimbJoints:          append([]int(nil), pose.DefaultRightArm...),
		Palette:             []string{string(pose.DefaultPalette[0]), string(pose.DefaultPalette[1])},
	}
}

// FrameInterval returns the frame loop period.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.Detector {
	case DetectorPush, DetectorSynthetic:
	case DetectorReplay:
		if c.ReplayPath == "" {
			return fmt.Errorf("%w: replay_path is required for the replay detector", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown detector %q", ErrInvalidConfig, c.Detector)
	}
	if c.FrameIntervalMS <= 0 {
		return fmt.Errorf("%w: frame_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.IngestQueueSize <= 0 {
		return fmt.Errorf("%w: ingest_queue_size must be positive", ErrInvalidConfig)
	}
	if c.JointCount <= 0 {
		return fmt.Errorf("%w: joint_count must be positive", ErrInvalidConfig)
	}
	if c.IdentityAnchorJoint < 0 || c.IdentityAnchorJoint >= c.JointCount {
		return fmt.Errorf("%w: identity_anchor_joint %d outside [0,%d)", ErrInvalidConfig, c.IdentityAnchorJoint, c.JointCount)
	}
	if c.MirrorAnchorJoint < 0 || c.MirrorAnchorJoint >= c.JointCount {
		return fmt.Errorf("%w: mirror_anchor_joint %d outside [0,%d)", ErrInvalidConfig, c.MirrorAnchorJoint, c.JointCount)
	}
	if c.Midline <= 0 || c.Midline >= 1 {
		return fmt.Errorf("%w: midline must be inside (0,1), got %v", ErrInvalidConfig, c.Midline)
	}
	if _, err := identity.ParseSingleBodyMode(c.SingleBodyMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := pose.JointSet(c.LimbJoints).Validate(c.JointCount); err != nil {
		return fmt.Errorf("%w: limb_joints: %w", ErrInvalidConfig, err)
	}
	if _, err := pose.ParsePalette(c.Palette); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
