package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tinygadget/internal/config"
	"github.com/1broseidon/tinygadget/internal/logging"
)

func main() {
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelInfo)

	mode := logging.ModeJSON
	if term.IsTerminal(int(os.Stderr.Fd())) {
		mode = logging.ModeText
	}
	logger := logging.New(mode, os.Stderr, &levelVar)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(logger, &levelVar)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("command interrupted", "error", err)
			os.Exit(130)
		}
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	logger     *slog.Logger
	levelVar   *slog.LevelVar
	configPath string
	logLevel   string
}

func newRootCommand(logger *slog.Logger, levelVar *slog.LevelVar) *cobra.Command {
	a := &app{logger: logger, levelVar: levelVar}

	root := &cobra.Command{
		Use:           "tinygadget",
		Short:         "Borderless, draggable, zoomable desktop gadgets for X11",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/tinygadget/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log verbosity (debug, info, warning, error)")

	root.AddCommand(
		newRunCommand(a),
		newDisplaysCommand(a),
		newGeometryCommand(a),
		newConfigCommand(a),
	)
	return root
}

// loadConfig reads the config file and applies the log level from the file
// or, when given, the --log-level flag.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(a.configPath)
	}
	if err != nil {
		return nil, err
	}

	levelName := cfg.LogLevel
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	a.levelVar.Set(level)
	return cfg, nil
}

func (a *app) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.DefaultConfigPath()
}
