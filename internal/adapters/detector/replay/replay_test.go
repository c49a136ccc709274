package replay_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/dancercade/internal/adapters/detector/replay"
	"github.com/okian/dancercade/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const twoFrames = `
fps: 10
frames:
  - bodies:
      - [{x: 0.3, y: 0.5, z: 0}, {x: 0.35, y: 0.6, z: -0.1}]
      - [{x: 0.7, y: 0.5, z: 0}, {x: 0.75, y: 0.6, z: 0.05}]
  - bodies:
      - [{x: 0.32, y: 0.5, z: 0}, {x: 0.36, y: 0.6, z: -0.1}]
`

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func detect(p *replay.Player, f model.Frame) model.Detection {
	var got model.Detection
	So(p.DetectForVideo(context.Background(), f, 0, func(d model.Detection) { got = d }), ShouldBeNil)
	return got
}

func TestLoadYAML(t *testing.T) {
	Convey("Given a recording document", t, func() {
		Convey("When it is well formed", func() {
			rec, err := replay.LoadYAML(strings.NewReader(twoFrames))

			Convey("Then frames and landmarks are decoded", func() {
				So(err, ShouldBeNil)
				So(rec.FPS, ShouldEqual, 10.0)
				So(rec.Frames, ShouldHaveLength, 2)
				So(rec.Frames[0].Bodies, ShouldHaveLength, 2)
				So(rec.Frames[0].Bodies[1][1].Z, ShouldEqual, 0.05)
				So(rec.FrameDuration(), ShouldEqual, 100*time.Millisecond)
			})
		})

		Convey("When fps is missing", func() {
			_, err := replay.LoadYAML(strings.NewReader("frames: [{bodies: []}]"))
			So(errors.Is(err, replay.ErrInvalidRecording), ShouldBeTrue)
		})

		Convey("When fps is too high to step the clock", func() {
			_, err := replay.LoadYAML(strings.NewReader("fps: 3000000000\nframes: [{bodies: []}]"))
			So(errors.Is(err, replay.ErrInvalidRecording), ShouldBeTrue)
		})

		Convey("When there are no frames", func() {
			_, err := replay.LoadYAML(strings.NewReader("fps: 30\nframes: []"))
			So(errors.Is(err, replay.ErrEmptyRecording), ShouldBeTrue)
		})

		Convey("When it is not yaml", func() {
			_, err := replay.LoadYAML(strings.NewReader("fps: [unterminated"))
			So(errors.Is(err, replay.ErrInvalidRecording), ShouldBeTrue)
		})
	})

	Convey("Given a recording on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "dance.yaml")
		So(os.WriteFile(path, []byte(twoFrames), 0o600), ShouldBeNil)

		rec, err := replay.Open(path)
		So(err, ShouldBeNil)
		So(rec.Frames, ShouldHaveLength, 2)

		_, err = replay.Open(filepath.Join(dir, "missing.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestPlayer(t *testing.T) {
	Convey("Given a player on a manual clock", t, func() {
		rec, err := replay.LoadYAML(strings.NewReader(twoFrames))
		So(err, ShouldBeNil)
		clock := &manualClock{now: time.Unix(0, 0)}
		ctx := context.Background()

		Convey("When polled faster than the frame rate", func() {
			p := replay.NewPlayer(rec, replay.WithClock(clock.Now))
			a, ok, err := p.CurrentFrame(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			clock.Advance(30 * time.Millisecond)
			b, _, _ := p.CurrentFrame(ctx)

			Convey("Then the same media time repeats", func() {
				So(a.MediaTime, ShouldEqual, time.Duration(0))
				So(b.MediaTime, ShouldEqual, a.MediaTime)
				So(b.ID, ShouldEqual, a.ID)
			})
		})

		Convey("When the recording ends without looping", func() {
			p := replay.NewPlayer(rec, replay.WithClock(clock.Now))
			_, _, _ = p.CurrentFrame(ctx)
			clock.Advance(time.Second)
			f, _, _ := p.CurrentFrame(ctx)

			Convey("Then the last frame is held", func() {
				So(f.MediaTime, ShouldEqual, 100*time.Millisecond)
				So(detect(p, f).Landmarks, ShouldHaveLength, 1)
			})
		})

		Convey("When the recording loops", func() {
			p := replay.NewPlayer(rec, replay.WithClock(clock.Now), replay.WithLoop(true))
			_, _, _ = p.CurrentFrame(ctx)
			clock.Advance(200 * time.Millisecond)
			f, _, _ := p.CurrentFrame(ctx)

			Convey("Then media time keeps advancing while frames wrap", func() {
				So(f.MediaTime, ShouldEqual, 200*time.Millisecond)
				So(detect(p, f).Landmarks, ShouldHaveLength, 2)
				So(p.Len(), ShouldEqual, 2)
			})
		})

		Convey("When a negative media time is requested", func() {
			p := replay.NewPlayer(rec)
			err := p.DetectForVideo(ctx, model.Frame{MediaTime: -1}, 0, func(model.Detection) {})
			So(errors.Is(err, replay.ErrInvalidRecording), ShouldBeTrue)
		})
	})
}
