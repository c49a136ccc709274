// Package worker runs the frame loop that drives the pipeline.
//
// One goroutine owns the pipeline state. Session commands and ticks are
// serialized through it, so a tick never overlaps another and a command never
// lands in the middle of a frame.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/dancercade/internal/pipeline"
	"github.com/okian/dancercade/pkg/logger"
)

const defaultInterval = 16 * time.Millisecond

// Ticker processes one frame against the loop state.
type Ticker interface {
	Tick(ctx context.Context, st *pipeline.State) (pipeline.Outcome, error)
}

// Command changes the session state.
type Command int

const (
	// CommandStartGame registers the start input.
	CommandStartGame Command = iota
	// CommandStartStream marks the video stream live.
	CommandStartStream
	// CommandStopStream halts processing.
	CommandStopStream
)

func (c Command) String() string {
	switch c {
	case CommandStartGame:
		return "start_game"
	case CommandStartStream:
		return "start_stream"
	case CommandStopStream:
		return "stop_stream"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

type request struct {
	cmd   Command
	reply chan error
}

// Snapshot is a point-in-time copy of the loop state.
type Snapshot struct {
	Started       bool              `json:"started"`
	Running       bool              `json:"running"`
	LastTimestamp time.Duration     `json:"lastTimestamp"`
	Ticks         uint64            `json:"ticks"`
	Outcomes      map[string]uint64 `json:"outcomes"`
	LastOutcome   string            `json:"lastOutcome,omitempty"`
	LastError     string            `json:"lastError,omitempty"`
}

// FrameLoop ticks the pipeline at a fixed interval while the session is active.
type FrameLoop struct {
	ticker   Ticker
	interval time.Duration
	name     string
	state    *pipeline.State

	requests chan request

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	mu       sync.RWMutex
	snapshot Snapshot

	logger logger.Logger
}

// NewFrameLoop creates a halted loop over t.
func NewFrameLoop(t Ticker, opts ...Option) *FrameLoop {
	l := &FrameLoop{
		ticker:   t,
		interval: defaultInterval,
		name:     "frame-loop",
		state:    pipeline.NewState(),
		requests: make(chan request),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named(l.name)
	}
	l.snapshot = Snapshot{LastTimestamp: l.state.LastTimestamp, Outcomes: map[string]uint64{}}
	return l
}

// Run drives the loop until ctx is canceled or Shutdown is called.
func (l *FrameLoop) Run(ctx context.Context) {
	defer close(l.done)

	tk := time.NewTicker(l.interval)
	defer tk.Stop()

	l.logger.Info(ctx, "frame loop started", logger.Duration("interval", l.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.shutdown:
			return
		case req := <-l.requests:
			req.reply <- l.apply(ctx, req.cmd)
		case <-tk.C:
			if l.state.Active() {
				l.tick(ctx)
			}
		}
	}
}

// Send applies cmd on the loop goroutine and waits for the result.
func (l *FrameLoop) Send(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}
	select {
	case l.requests <- req:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the loop and waits for the current tick to finish.
func (l *FrameLoop) Shutdown(ctx context.Context) error {
	l.shutdownOnce.Do(func() { close(l.shutdown) })
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		l.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Snapshot returns a copy of the loop state.
func (l *FrameLoop) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := l.snapshot
	s.Outcomes = make(map[string]uint64, len(l.snapshot.Outcomes))
	for k, v := range l.snapshot.Outcomes {
		s.Outcomes[k] = v
	}
	return s
}

func (l *FrameLoop) apply(ctx context.Context, cmd Command) error {
	var err error
	switch cmd {
	case CommandStartGame:
		l.state.StartGame()
	case CommandStartStream:
		err = l.state.StartStream()
	case CommandStopStream:
		l.state.Stop()
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	if err != nil {
		l.logger.Warn(ctx, "command rejected", logger.String("command", cmd.String()), logger.Error(err))
		return err
	}
	l.logger.Info(ctx, "session updated",
		logger.String("command", cmd.String()),
		logger.Bool("started", l.state.Started),
		logger.Bool("running", l.state.Running),
	)
	l.publish(nil)
	return nil
}

func (l *FrameLoop) tick(ctx context.Context) {
	outcome, err := l.ticker.Tick(ctx, l.state)
	if err != nil {
		l.logger.Debug(ctx, "frame dropped", logger.String("outcome", outcome.String()), logger.Error(err))
	}
	l.publish(func(s *Snapshot) {
		s.Ticks++
		s.Outcomes[outcome.String()]++
		s.LastOutcome = outcome.String()
		if err != nil {
			s.LastError = err.Error()
		}
	})
}

func (l *FrameLoop) publish(update func(*Snapshot)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshot.Started = l.state.Started
	l.snapshot.Running = l.state.Running
	l.snapshot.LastTimestamp = l.state.LastTimestamp
	if update != nil {
		update(&l.snapshot)
	}
}
