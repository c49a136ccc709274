package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/okian/dancercade/internal/config"
	"github.com/okian/dancercade/pkg/logger"
)

// flags are command line overrides layered over the loaded config.
type flags struct {
	configPath string
	addr       string
	detector   string
	replayPath string
	autoStart  bool
	logLevel   string
	limit      int
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "dancercade",
		Short:         "Two-player pose mirroring game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if err := initLogging(cfg, nil); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	pf.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file (env: DANCERCADE_CONFIG)")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (env: DANCERCADE_LOG_LEVEL)")
	pf.StringVar(&f.detector, "detector", "", "push, replay or synthetic (env: DANCERCADE_DETECTOR)")

	fs := cmd.Flags()
	fs.StringVarP(&f.addr, "addr", "a", "", "address to listen on (env: DANCERCADE_ADDR)")
	fs.StringVar(&f.replayPath, "replay-path", "", "recording played by the replay detector (env: DANCERCADE_REPLAY_PATH)")
	fs.BoolVar(&f.autoStart, "auto-start", false, "start the game and the stream at boot (env: DANCERCADE_AUTO_START)")

	cmd.AddCommand(newReplayCmd(f))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("dancercade v{{.Version}}\n")

	return cmd
}

// loadConfig layers the flags that were set over defaults, file and env.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), config.WithFile(f.configPath))
	if err != nil {
		return nil, err
	}
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("addr") {
		cfg.Addr = f.addr
	}
	if changed("detector") {
		cfg.Detector = f.detector
	}
	if changed("replay-path") {
		cfg.ReplayPath = f.replayPath
	}
	if changed("auto-start") {
		cfg.AutoStart = f.autoStart
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging configures the global logger. A nil w keeps stdout.
func initLogging(cfg *config.Config, w io.Writer) error {
	opts := []logger.Option{logger.WithFormat(cfg.LogFormat)}
	if w != nil {
		opts = append(opts, logger.WithWriter(w))
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}
