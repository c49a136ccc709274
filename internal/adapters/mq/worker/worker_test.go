package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	worker "github.com/okian/dancercade/internal/adapters/mq/worker"
	"github.com/okian/dancercade/internal/pipeline"
	logging "github.com/okian/dancercade/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

// mockTicker records calls and detects overlapping ticks.
type mockTicker struct {
	calls    atomic.Int64
	active   atomic.Int32
	overlaps atomic.Int32
	delay    time.Duration
	err      error

	mu     sync.Mutex
	states []pipeline.State
}

func (m *mockTicker) Tick(_ context.Context, st *pipeline.State) (pipeline.Outcome, error) {
	if m.active.Add(1) > 1 {
		m.overlaps.Add(1)
	}
	defer m.active.Add(-1)
	m.calls.Add(1)

	m.mu.Lock()
	m.states = append(m.states, *st)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	st.LastTimestamp += time.Millisecond
	if m.err != nil {
		return pipeline.OutcomeDropped, m.err
	}
	return pipeline.OutcomeSingle, nil
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func startLoop(t *mockTicker) (*worker.FrameLoop, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := worker.NewFrameLoop(t, worker.WithInterval(time.Millisecond), worker.WithName("test-loop"))
	go loop.Run(ctx)
	return loop, cancel
}

func TestFrameLoop_Gating(t *testing.T) {
	convey.Convey("Given a running frame loop", t, func() {
		ticker := &mockTicker{}
		loop, cancel := startLoop(ticker)
		defer cancel()
		ctx := context.Background()

		convey.Convey("When nothing was started", func() {
			time.Sleep(20 * time.Millisecond)

			convey.Convey("Then the pipeline is never ticked", func() {
				convey.So(ticker.calls.Load(), convey.ShouldEqual, int64(0))
				snap := loop.Snapshot()
				convey.So(snap.Started, convey.ShouldBeFalse)
				convey.So(snap.LastTimestamp, convey.ShouldEqual, time.Duration(-1))
			})
		})

		convey.Convey("When the stream starts before the game", func() {
			err := loop.Send(ctx, worker.CommandStartStream)

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, pipeline.ErrGameNotStarted), convey.ShouldBeTrue)
				convey.So(loop.Snapshot().Running, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the game and stream start", func() {
			convey.So(loop.Send(ctx, worker.CommandStartGame), convey.ShouldBeNil)
			convey.So(loop.Send(ctx, worker.CommandStartStream), convey.ShouldBeNil)

			convey.Convey("Then ticks flow and the state is shared with the pipeline", func() {
				convey.So(eventually(func() bool { return ticker.calls.Load() >= 3 }), convey.ShouldBeTrue)
				snap := loop.Snapshot()
				convey.So(snap.Running, convey.ShouldBeTrue)
				convey.So(snap.Ticks, convey.ShouldBeGreaterThanOrEqualTo, 3)
				convey.So(snap.Outcomes["single"], convey.ShouldEqual, snap.Ticks)
				convey.So(snap.LastOutcome, convey.ShouldEqual, "single")

				ticker.mu.Lock()
				first := ticker.states[0]
				ticker.mu.Unlock()
				convey.So(first.Started, convey.ShouldBeTrue)
				convey.So(first.Running, convey.ShouldBeTrue)
			})

			convey.Convey("And stopping the stream halts ticking", func() {
				convey.So(loop.Send(ctx, worker.CommandStopStream), convey.ShouldBeNil)
				stopped := ticker.calls.Load()
				time.Sleep(20 * time.Millisecond)
				convey.So(ticker.calls.Load(), convey.ShouldEqual, stopped)
				convey.So(loop.Snapshot().Started, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an unknown command is sent", func() {
			err := loop.Send(ctx, worker.Command(42))

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, worker.ErrUnknownCommand), convey.ShouldBeTrue)
			})
		})
	})
}

func TestFrameLoop_Serialization(t *testing.T) {
	convey.Convey("Given a slow pipeline", t, func() {
		ticker := &mockTicker{delay: 5 * time.Millisecond}
		loop, cancel := startLoop(ticker)
		defer cancel()
		ctx := context.Background()

		convey.So(loop.Send(ctx, worker.CommandStartGame), convey.ShouldBeNil)
		convey.So(loop.Send(ctx, worker.CommandStartStream), convey.ShouldBeNil)

		convey.Convey("When commands arrive concurrently with ticks", func() {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = loop.Send(ctx, worker.CommandStartStream)
				}()
			}
			wg.Wait()
			convey.So(eventually(func() bool { return ticker.calls.Load() >= 5 }), convey.ShouldBeTrue)

			convey.Convey("Then ticks never overlap", func() {
				convey.So(ticker.overlaps.Load(), convey.ShouldEqual, int32(0))
			})
		})
	})
}

func TestFrameLoop_Errors(t *testing.T) {
	convey.Convey("Given a pipeline that drops every frame", t, func() {
		ticker := &mockTicker{err: errors.New("malformed")}
		loop, cancel := startLoop(ticker)
		defer cancel()
		ctx := context.Background()

		convey.So(loop.Send(ctx, worker.CommandStartGame), convey.ShouldBeNil)
		convey.So(loop.Send(ctx, worker.CommandStartStream), convey.ShouldBeNil)

		convey.Convey("Then the loop keeps ticking and reports the last error", func() {
			convey.So(eventually(func() bool { return ticker.calls.Load() >= 3 }), convey.ShouldBeTrue)
			snap := loop.Snapshot()
			convey.So(snap.LastError, convey.ShouldEqual, "malformed")
			convey.So(snap.Outcomes["dropped"], convey.ShouldBeGreaterThanOrEqualTo, 3)
		})
	})
}

func TestFrameLoop_Shutdown(t *testing.T) {
	convey.Convey("Given a running frame loop", t, func() {
		ticker := &mockTicker{}
		loop, cancel := startLoop(ticker)
		defer cancel()

		convey.Convey("When it is shut down", func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			err := loop.Shutdown(shutdownCtx)

			convey.Convey("Then it stops and further commands fail", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loop.Send(context.Background(), worker.CommandStartGame), convey.ShouldEqual, worker.ErrStopped)
			})

			convey.Convey("And shutting down twice is harmless", func() {
				convey.So(loop.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When it is never run", func() {
			idle := worker.NewFrameLoop(ticker)
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer done()

			convey.Convey("Then shutdown times out", func() {
				convey.So(idle.Shutdown(shutdownCtx), convey.ShouldNotBeNil)
			})
		})
	})

	convey.Convey("Commands have stable names", t, func() {
		convey.So(worker.CommandStartGame.String(), convey.ShouldEqual, "start_game")
		convey.So(worker.CommandStopStream.String(), convey.ShouldEqual, "stop_stream")
		convey.So(worker.Command(9).String(), convey.ShouldEqual, "command(9)")
	})
}
