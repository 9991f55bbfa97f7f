package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tinygadget/internal/config"
	"github.com/1broseidon/tinygadget/internal/gadget"
	"github.com/1broseidon/tinygadget/internal/instance"
	"github.com/1broseidon/tinygadget/internal/platform"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		namespace string
		hidden    bool
		noPersist bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a gadget window with drag, zoom, close menu and saved geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("namespace") {
				cfg.Namespace = namespace
			}
			if cmd.Flags().Changed("taskbar-hidden") {
				cfg.TaskbarHidden = hidden
			}
			if noPersist {
				cfg.Persist = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runGadget(cmd.Context(), cfg, a.logger)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Geometry namespace (overrides config)")
	cmd.Flags().BoolVar(&hidden, "taskbar-hidden", false, "Keep the gadget out of the taskbar and task switcher")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "Do not restore or save geometry")
	return cmd
}

func runGadget(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger = logger.With("instance", uuid.NewString(), "namespace", cfg.Namespace)

	background, err := config.ParseColor(cfg.Background)
	if err != nil {
		return err
	}

	backend, err := platform.NewLinuxBackendFromDisplay(logger)
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	window, err := backend.NewWindow(cfg.Title)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	opts := gadget.Options{
		Mode:         cfg.Mode(),
		ZoomModifier: cfg.Modifier(),
		CloseLabel:   cfg.CloseLabel,
		Logger:       logger,
	}
	if cfg.Persist {
		lock, err := instance.Acquire(cfg.Namespace)
		if err != nil {
			return err
		}
		defer lock.Release()

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open preference store: %w", err)
		}
		defer store.Close()
		opts.Store = store
		opts.Screens = backend
	}

	g, err := gadget.Attach(window, opts)
	if err != nil {
		return err
	}
	defer g.Detach()

	content, ok := g.Window().(*platform.LinuxWindow)
	if !ok {
		return fmt.Errorf("unexpected window type %T", g.Window())
	}
	if cfg.Sticky {
		if err := content.SetSticky(true); err != nil {
			logger.Warn("failed to make gadget sticky", "error", err)
		}
	}

	// Creating the surface attaches the behaviors and restores geometry.
	surface, err := content.NewSurface()
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}
	surface.Fill(background)

	if err := content.Show(); err != nil {
		return err
	}
	logger.Info("gadget running", "mode", cfg.Mode().String(), "store", string(cfg.Store), "persist", cfg.Persist)

	stop := closeOnCancel(ctx, content.Closer(), logger)
	defer stop()

	backend.EventLoop()
	logger.Info("gadget closed")
	return ctx.Err()
}

// closeOnCancel sends a close request when ctx is done, so geometry is saved
// through the normal close path. requestClose runs on its own goroutine and
// must not touch event-loop state. If the window is already gone the loop
// has exited on its own.
func closeOnCancel(ctx context.Context, requestClose func() error, logger *slog.Logger) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		if err := requestClose(); err != nil {
			logger.Warn("failed to request close on shutdown", "error", err)
		}
	})
}
