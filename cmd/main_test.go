package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	app "github.com/okian/dancercade/internal/app"
	"github.com/okian/dancercade/internal/config"
	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Two dancers far apart, four joints each. The limb is joints 2 and 3 and
// the alignment anchor is joint 1.
const recording = `
fps: 20
frames:
  - bodies:
      - [{x: 0.20, y: 0.1, z: 0}, {x: 0.20, y: 0.3, z: 0}, {x: 0.25, y: 0.4, z: 0}, {x: 0.30, y: 0.5, z: 0}]
      - [{x: 0.70, y: 0.1, z: 0}, {x: 0.70, y: 0.3, z: 0}, {x: 0.72, y: 0.4, z: 0}, {x: 0.74, y: 0.5, z: 0}]
  - bodies:
      - [{x: 0.20, y: 0.1, z: 0}, {x: 0.20, y: 0.3, z: 0}, {x: 0.25, y: 0.2, z: 0}, {x: 0.30, y: 0.1, z: 0}]
  - bodies: []
`

func replayConfig() *config.Config {
	cfg := config.New()
	cfg.JointCount = 4
	cfg.IdentityAnchorJoint = 0
	cfg.MirrorAnchorJoint = 1
	cfg.LimbJoints = []int{2, 3}
	return cfg
}

func writeRecording(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "dance.yaml")
	if err := os.WriteFile(path, []byte(recording), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReplay(t *testing.T) {
	convey.Convey("Given a recording on disk", t, func() {
		path := writeRecording(t)
		ctx := context.Background()

		convey.Convey("When it is replayed", func() {
			var out bytes.Buffer
			summary, err := runReplay(ctx, replayConfig(), path, 0, &out)

			convey.Convey("Then every frame is rendered once in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.Frames, convey.ShouldEqual, 3)
				convey.So(summary.Outcomes["mirrored"], convey.ShouldEqual, 1)
				convey.So(summary.Outcomes["single"], convey.ShouldEqual, 1)
				convey.So(summary.Outcomes["empty"], convey.ShouldEqual, 1)

				var views []types.FrameView
				sc := bufio.NewScanner(&out)
				for sc.Scan() {
					var v types.FrameView
					convey.So(json.Unmarshal(sc.Bytes(), &v), convey.ShouldBeNil)
					views = append(views, v)
				}
				convey.So(views, convey.ShouldHaveLength, 3)
				convey.So(views[0].Mirrored, convey.ShouldBeTrue)
				convey.So(views[0].MediaTimeMs, convey.ShouldEqual, int64(0))
				convey.So(views[1].MediaTimeMs, convey.ShouldEqual, int64(50))
				convey.So(views[2].Points, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a limit is given", func() {
			var out bytes.Buffer
			summary, err := runReplay(ctx, replayConfig(), path, 1, &out)

			convey.Convey("Then playback stops early", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.Frames, convey.ShouldEqual, 1)
				convey.So(strings.Count(out.String(), "\n"), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := runReplay(ctx, replayConfig(), filepath.Join(t.TempDir(), "nope.yaml"), 0, &bytes.Buffer{})
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		cmd := newRootCmd()

		convey.Convey("Then it exposes the replay subcommand", func() {
			sub, _, err := cmd.Find([]string{"replay"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(sub.Name(), convey.ShouldEqual, "replay")
		})

		convey.Convey("When replay runs through the command line", func() {
			path := writeRecording(t)
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			convey.So(os.WriteFile(cfgPath, []byte("joint_count: 4\nidentity_anchor_joint: 0\nmirror_anchor_joint: 1\nlimb_joints: [2, 3]\n"), 0o600), convey.ShouldBeNil)

			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs([]string{"replay", "--config", cfgPath, path})
			err := cmd.ExecuteContext(context.Background())

			convey.Convey("Then frame views go to stdout and logs to stderr", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(strings.Count(out.String(), "\n"), convey.ShouldEqual, 3)
				convey.So(errOut.String(), convey.ShouldContainSubstring, "replay finished")
			})
		})

		convey.Convey("When a flag selects an unknown detector", func() {
			cmd.SetArgs([]string{"--detector", "webcam"})
			err := cmd.ExecuteContext(context.Background())

			convey.Convey("Then the config is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the server routes", t, func() {
		ctx := context.Background()
		svc, err := app.New(config.New())
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(ctx, config.New(), svc)

		routes := []struct {
			method string
			path   string
			status int
		}{
			{http.MethodGet, "/", http.StatusOK},
			{http.MethodGet, "/healthz", http.StatusOK},
			{http.MethodGet, "/stats", http.StatusOK},
			{http.MethodGet, "/metrics", http.StatusOK},
			{http.MethodGet, "/openapi.yaml", http.StatusOK},
			{http.MethodGet, "/api-docs", http.StatusOK},
			{http.MethodGet, "/viewer", http.StatusOK},
			{http.MethodGet, "/qr", http.StatusOK},
			{http.MethodGet, "/frame", http.StatusNotFound},
		}
		for _, rt := range routes {
			convey.Convey("Then "+rt.method+" "+rt.path+" is served", func() {
				req := httptest.NewRequest(rt.method, rt.path, http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, rt.status)
			})
		}
	})
}
