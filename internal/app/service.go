// Package service wires the detector, the pipeline, the frame loop and the
// renderers behind the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/dancercade/internal/adapters/detector/push"
	"github.com/okian/dancercade/internal/adapters/detector/replay"
	"github.com/okian/dancercade/internal/adapters/detector/synthetic"
	"github.com/okian/dancercade/internal/adapters/mq/queue"
	"github.com/okian/dancercade/internal/adapters/mq/worker"
	"github.com/okian/dancercade/internal/adapters/render"
	"github.com/okian/dancercade/internal/config"
	"github.com/okian/dancercade/internal/domain/identity"
	"github.com/okian/dancercade/internal/domain/mirror"
	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/pose"
	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/internal/pipeline"
	"github.com/okian/dancercade/pkg/logger"
	"github.com/okian/dancercade/pkg/metrics"
)

// FrameProvider is both halves of a detector adapter: it yields frames and
// the detections for them.
type FrameProvider interface {
	pipeline.Source
	pipeline.Detector
}

// Service implements the API dependencies for the game.
type Service struct {
	mu sync.RWMutex

	cfg       *config.Config
	clock     func() time.Time
	sinks     []render.Sink
	recording *replay.Recording

	// Core components
	ingest   *queue.InMemoryQueue
	push     *push.Detector
	recorder *render.Recorder
	hub      *render.Hub
	loop     *worker.FrameLoop
	sendCmd  func(context.Context, worker.Command) error

	// State
	started bool
	stopped bool
	cancel  context.CancelFunc
	group   *errgroup.Group

	logger logger.Logger
}

// New builds the service described by cfg. Nothing runs until Start.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	provider, err := s.provider()
	if err != nil {
		return nil, err
	}

	s.recorder = render.NewRecorder()
	s.hub = render.NewHub(render.WithHubLogger(s.logger.Named("hub")))
	renderer := render.New(append([]render.Sink{s.recorder, s.hub}, s.sinks...)...)

	p, err := BuildPipeline(cfg, provider, renderer, pipeline.WithClock(s.clock), pipeline.WithLogger(s.logger.Named("pipeline")))
	if err != nil {
		return nil, err
	}
	s.loop = worker.NewFrameLoop(p,
		worker.WithInterval(cfg.FrameInterval()),
		worker.WithLogger(s.logger.Named("frame-loop")),
	)
	if s.sendCmd == nil {
		s.sendCmd = s.loop.Send
	}
	return s, nil
}

// provider builds the detector adapter selected by the config.
func (s *Service) provider() (FrameProvider, error) {
	switch s.cfg.Detector {
	case config.DetectorPush:
		s.ingest = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.IngestQueueSize))
		s.push = push.New(s.ingest, push.WithLogger(s.logger.Named("push")))
		return s.push, nil
	case config.DetectorReplay:
		rec := s.recording
		if rec == nil {
			var err error
			if rec, err = replay.Open(s.cfg.ReplayPath); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDetectorSetup, err)
			}
		}
		return replay.NewPlayer(rec, replay.WithLoop(s.cfg.ReplayLoop), replay.WithClock(s.clock)), nil
	case config.DetectorSynthetic:
		return synthetic.New(synthetic.WithClock(s.clock)), nil
	default:
		return nil, fmt.Errorf("%w: unknown detector %q", ErrDetectorSetup, s.cfg.Detector)
	}
}

// BuildPipeline wires the identity resolver and the mirror engine described
// by cfg between provider and renderer.
func BuildPipeline(cfg *config.Config, provider FrameProvider, renderer pipeline.Renderer, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	mode, err := identity.ParseSingleBodyMode(cfg.SingleBodyMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	palette, err := pose.ParsePalette(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	resolver := identity.NewResolver(
		identity.WithJointCount(cfg.JointCount),
		identity.WithAnchorJoint(cfg.IdentityAnchorJoint),
		identity.WithMidline(cfg.Midline),
		identity.WithSingleBodyMode(mode),
	)
	engine := mirror.New(
		mirror.WithJointCount(cfg.JointCount),
		mirror.WithAnchorJoint(cfg.MirrorAnchorJoint),
		mirror.WithLimbJoints(pose.JointSet(cfg.LimbJoints)),
		mirror.WithPalette(palette),
	)
	opts = append([]pipeline.Option{
		pipeline.WithPalette(palette),
		pipeline.WithSingleBodyColoring(cfg.ColorSingleBody),
	}, opts...)
	return pipeline.New(provider, provider, resolver, engine, renderer, opts...), nil
}

// Start runs the viewer hub, the detector adapter and the frame loop until
// Stop or until ctx is canceled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return fmt.Errorf("start: %w", ErrNotRunning)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})
	if s.push != nil {
		g.Go(func() error {
			s.push.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		s.loop.Run(gctx)
		return nil
	})
	s.cancel = cancel
	s.group = g
	s.started = true

	s.logger.Info(ctx, "dancercade service started",
		logger.String("detector", s.cfg.Detector),
		logger.Duration("frameInterval", s.cfg.FrameInterval()),
		logger.Bool("autoStart", s.cfg.AutoStart),
	)

	if s.cfg.AutoStart {
		if err := s.autoStart(ctx); err != nil {
			s.abort()
			return err
		}
	}
	return nil
}

func (s *Service) autoStart(ctx context.Context) error {
	if err := s.sendCmd(ctx, worker.CommandStartGame); err != nil {
		return fmt.Errorf("auto start game: %w", err)
	}
	if err := s.sendCmd(ctx, worker.CommandStartStream); err != nil {
		return fmt.Errorf("auto start stream: %w", err)
	}
	return nil
}

// abort tears down a half-started service. The caller holds s.mu.
func (s *Service) abort() {
	if s.ingest != nil {
		_ = s.ingest.Close()
	}
	s.cancel()
	_ = s.group.Wait()
	s.started = false
	s.stopped = true
	s.logger.Warn(context.Background(), "dancercade service start aborted")
}

// Stop closes the ingest queue, lets the in-flight tick finish and waits
// for every goroutine to return. A stopped service cannot be restarted.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping dancercade service...")

	var errs []error
	if s.ingest != nil {
		if err := s.ingest.Close(); err != nil && !errors.Is(err, queue.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if err := s.loop.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.cancel()
	if err := s.group.Wait(); err != nil {
		errs = append(errs, err)
	}
	s.started = false
	s.stopped = true

	s.logger.Info(ctx, "dancercade service stopped")
	return errors.Join(errs...)
}

// StartGame records the start input.
func (s *Service) StartGame(ctx context.Context) error {
	return s.send(ctx, worker.CommandStartGame)
}

// StartStream starts ticking. The game must be started first.
func (s *Service) StartStream(ctx context.Context) error {
	return s.send(ctx, worker.CommandStartStream)
}

// StopStream halts ticking. The game stays started.
func (s *Service) StopStream(ctx context.Context) error {
	return s.send(ctx, worker.CommandStopStream)
}

func (s *Service) send(ctx context.Context, cmd worker.Command) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return fmt.Errorf("%s: %w: %w", cmd, ErrNotRunning, worker.ErrStopped)
	}
	return s.sendCmd(ctx, cmd)
}

// Submit hands a pushed detection to the push detector.
func (s *Service) Submit(ctx context.Context, sample model.Sample) error { //nolint:gocritic // hugeParam: Sample is passed by value for channel semantics
	if s.ingest == nil {
		return fmt.Errorf("detector %q does not accept pushed frames: %w", s.cfg.Detector, queue.ErrClosed)
	}
	if err := s.ingest.Enqueue(ctx, sample); err != nil {
		s.logger.Debug(ctx, "sample rejected", logger.String("frame", sample.Frame.ID), logger.Error(err))
		return err
	}
	return nil
}

// LastFrame returns the most recently rendered view.
func (s *Service) LastFrame() (types.FrameView, bool) {
	return s.recorder.Last()
}

// Hub returns the websocket hub that streams views to viewers.
func (s *Service) Hub() *render.Hub {
	return s.hub
}

// Snapshot returns the frame loop state.
func (s *Service) Snapshot() worker.Snapshot {
	return s.loop.Snapshot()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.loop.Snapshot()
	stats := map[string]any{
		"serviceStarted":  s.started,
		"detector":        s.cfg.Detector,
		"started":         snap.Started,
		"running":         snap.Running,
		"ticks":           snap.Ticks,
		"outcomes":        snap.Outcomes,
		"lastOutcome":     snap.LastOutcome,
		"lastError":       snap.LastError,
		"lastTimestampMs": snap.LastTimestamp.Milliseconds(),
		"framesRendered":  s.recorder.Count(),
		"viewers":         s.hub.Viewers(),
	}
	if s.ingest != nil {
		depth := s.ingest.Len()
		stats["queueLength"] = depth
		metrics.UpdateIngestQueueDepth(depth)
	}
	return stats
}
