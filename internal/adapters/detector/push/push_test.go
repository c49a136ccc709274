package push_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/dancercade/internal/adapters/detector/push"
	"github.com/okian/dancercade/internal/adapters/mq/queue"
	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/pose"
	"github.com/okian/dancercade/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func sample(id string, media time.Duration, bodies int) model.Sample {
	det := model.Detection{}
	for i := 0; i < bodies; i++ {
		det.Landmarks = append(det.Landmarks, pose.LandmarkSet{{X: float64(i)}})
	}
	return model.Sample{Frame: model.Frame{ID: id, MediaTime: media}, Detection: det}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestPushDetector(t *testing.T) {
	Convey("Given a push detector over an ingest queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		det := push.New(q)
		go det.Run(ctx)

		Convey("Before anything is pushed there is no frame", func() {
			_, ok, err := det.CurrentFrame(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When samples are pushed", func() {
			So(q.Enqueue(ctx, sample("a", 10*time.Millisecond, 1)), ShouldBeNil)
			So(q.Enqueue(ctx, sample("b", 20*time.Millisecond, 2)), ShouldBeNil)

			Convey("Then the newest frame wins", func() {
				So(waitFor(func() bool {
					f, ok, _ := det.CurrentFrame(ctx)
					return ok && f.ID == "b"
				}), ShouldBeTrue)
			})

			Convey("And its detection is delivered for that frame only", func() {
				So(waitFor(func() bool {
					f, _, _ := det.CurrentFrame(ctx)
					return f.ID == "b"
				}), ShouldBeTrue)

				var got []model.Detection
				cb := func(d model.Detection) { got = append(got, d) }
				So(det.DetectForVideo(ctx, model.Frame{ID: "b"}, 0, cb), ShouldBeNil)
				So(det.DetectForVideo(ctx, model.Frame{ID: "a"}, 0, cb), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Landmarks, ShouldHaveLength, 2)
			})
		})

		Convey("When an older sample arrives late", func() {
			So(q.Enqueue(ctx, sample("new", 50*time.Millisecond, 1)), ShouldBeNil)
			So(q.Enqueue(ctx, sample("old", 40*time.Millisecond, 1)), ShouldBeNil)
			So(q.Enqueue(ctx, sample("marker", 60*time.Millisecond, 0)), ShouldBeNil)

			Convey("Then it never replaces the newer frame", func() {
				seenOld := false
				So(waitFor(func() bool {
					f, _, _ := det.CurrentFrame(ctx)
					if f.ID == "old" {
						seenOld = true
					}
					return f.ID == "marker"
				}), ShouldBeTrue)
				So(seenOld, ShouldBeFalse)
			})
		})

		Convey("When the queue closes", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then Run returns", func() {
				select {
				case <-det.Done():
				case <-time.After(time.Second):
					t.Fatal("detector did not stop")
				}
			})
		})
	})
}
