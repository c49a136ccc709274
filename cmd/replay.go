package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/dancercade/internal/adapters/detector/replay"
	"github.com/okian/dancercade/internal/adapters/render"
	app "github.com/okian/dancercade/internal/app"
	"github.com/okian/dancercade/internal/config"
	"github.com/okian/dancercade/internal/domain/types"
	"github.com/okian/dancercade/internal/pipeline"
	"github.com/okian/dancercade/pkg/logger"
)

func newReplayCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <recording.yaml>",
		Short: "Run a recording through the pipeline and print every rendered frame as a JSON line.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if err := initLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			_, err = runReplay(cmd.Context(), cfg, args[0], f.limit, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "stop after this many frames, 0 plays the whole recording")
	return cmd
}

// manualClock advances one recording frame per tick.
type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// replaySummary counts the tick outcomes of one offline run.
type replaySummary struct {
	Frames   int
	Outcomes map[string]int
}

// runReplay ticks the pipeline once per recorded frame on a manual clock so
// the output does not depend on wall time.
func runReplay(ctx context.Context, cfg *config.Config, path string, limit int, w io.Writer) (replaySummary, error) {
	summary := replaySummary{Outcomes: map[string]int{}}

	rec, err := replay.Open(path)
	if err != nil {
		return summary, err
	}
	clock := &manualClock{now: time.Unix(0, 0)}
	player := replay.NewPlayer(rec, replay.WithClock(clock.Now))

	enc := json.NewEncoder(w)
	var encErr error
	sink := render.SinkFunc(func(_ context.Context, view types.FrameView) {
		if encErr == nil {
			encErr = enc.Encode(view)
		}
	})

	p, err := app.BuildPipeline(cfg, player, render.New(sink), pipeline.WithClock(clock.Now))
	if err != nil {
		return summary, err
	}

	st := pipeline.NewState()
	st.StartGame()
	if err := st.StartStream(); err != nil {
		return summary, err
	}

	log := logger.Get().Named("replay")
	frames := player.Len()
	if limit > 0 && limit < frames {
		frames = limit
	}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome, err := p.Tick(ctx, st)
		if err != nil {
			log.Warn(ctx, "frame dropped", logger.Int("index", i), logger.Error(err))
		}
		summary.Frames++
		summary.Outcomes[outcome.String()]++
		if encErr != nil {
			return summary, fmt.Errorf("write frame view: %w", encErr)
		}
		clock.Advance(rec.FrameDuration())
	}

	log.Info(ctx, "replay finished",
		logger.String("recording", path),
		logger.Int("frames", summary.Frames),
		logger.Any("outcomes", summary.Outcomes),
	)
	return summary, nil
}
