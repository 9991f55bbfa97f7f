package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tinygadget/internal/geometry"
	"github.com/1broseidon/tinygadget/internal/platform"
)

func newGeometryCommand(a *app) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Inspect or clear the stored gadget geometry",
	}
	cmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "", "Geometry namespace (overrides config)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored geometry and where it would be restored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if namespace != "" {
				cfg.Namespace = namespace
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := geometry.Load(store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := color.New(color.Bold).SprintFunc()
			fmt.Fprintf(out, "%s %s (%s)\n", label("namespace:"), cfg.Namespace, cfg.Store)
			fmt.Fprintf(out, "%s %s\n", label("stored:   "), formatRecord(stored))

			backend, err := platform.NewLinuxBackendFromDisplay(a.logger)
			if err != nil {
				fmt.Fprintln(out, color.YellowString("no display connection, cannot check visibility: %v", err))
				return nil
			}
			defer backend.Disconnect()

			restored, err := geometry.Resolve(store, backend)
			if err != nil {
				return err
			}
			if restored == stored {
				fmt.Fprintf(out, "%s %s\n", label("restores: "), color.GreenString("%s", formatRecord(restored)))
			} else {
				fmt.Fprintf(out, "%s %s %s\n", label("restores: "), color.YellowString("%s", formatRecord(restored)), "(stored rectangle is on no display)")
			}
			return nil
		},
	}

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored geometry so the next run uses the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if namespace != "" {
				cfg.Namespace = namespace
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if !yes {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("refusing to reset %q without --yes on a non-interactive terminal", cfg.Namespace)
				}
				confirmed := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Forget stored geometry for %q?", cfg.Namespace)).
					Affirmative("Reset").
					Negative("Keep").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "kept")
					return nil
				}
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear geometry: %w", err)
			}
			a.logger.Info("geometry reset", "namespace", cfg.Namespace, "store", string(cfg.Store))
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("reset %s, next run opens at %s", cfg.Namespace, formatRecord(geometry.Default)))
			return nil
		},
	}
	reset.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(show, reset)
	return cmd
}

func formatRecord(r geometry.Record) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
