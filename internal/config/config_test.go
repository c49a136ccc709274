package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/dancercade/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Detector, convey.ShouldEqual, config.DetectorPush)
			convey.So(cfg.FrameInterval(), convey.ShouldEqual, 16*time.Millisecond)
			convey.So(cfg.JointCount, convey.ShouldEqual, 33)
			convey.So(cfg.IdentityAnchorJoint, convey.ShouldEqual, 0)
			convey.So(cfg.MirrorAnchorJoint, convey.ShouldEqual, 12)
			convey.So(cfg.LimbJoints, convey.ShouldResemble, []int{12, 14, 16, 18, 20})
			convey.So(cfg.Palette, convey.ShouldResemble, []string{"#ff0000", "#0000ff"})
			convey.So(cfg.SingleBodyMode, convey.ShouldEqual, "first")
			convey.So(cfg.AutoStart, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		cases := []struct {
			want   string
			mutate func(*config.Config)
		}{
			{"addr must not be empty", func(c *config.Config) { c.Addr = "" }},
			{"unknown log_level", func(c *config.Config) { c.LogLevel = "loud" }},
			{"unknown log_format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown detector", func(c *config.Config) { c.Detector = "camera" }},
			{"replay_path is required", func(c *config.Config) { c.Detector = config.DetectorReplay }},
			{"frame_interval_ms", func(c *config.Config) { c.FrameIntervalMS = 0 }},
			{"ingest_queue_size", func(c *config.Config) { c.IngestQueueSize = -1 }},
			{"joint_count", func(c *config.Config) { c.JointCount = 0 }},
			{"identity_anchor_joint", func(c *config.Config) { c.IdentityAnchorJoint = 33 }},
			{"mirror_anchor_joint", func(c *config.Config) { c.MirrorAnchorJoint = -1 }},
			{"midline", func(c *config.Config) { c.Midline = 1 }},
			{"unknown single body mode", func(c *config.Config) { c.SingleBodyMode = "nearest" }},
			{"limb_joints", func(c *config.Config) { c.LimbJoints = []int{12, 40} }},
			{"palette needs 2 colors", func(c *config.Config) { c.Palette = []string{"#ffffff"} }},
			{"invalid palette color", func(c *config.Config) { c.Palette = []string{"red", "#0000ff"} }},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.want+" is violated", func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
			})
		}

		convey.Convey("When the replay detector has a path", func() {
			cfg.Detector = config.DetectorReplay
			cfg.ReplayPath = "dance.yaml"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
