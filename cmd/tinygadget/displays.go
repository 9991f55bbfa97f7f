package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tinygadget/internal/platform"
)

func newDisplaysCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List connected displays and their usable areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.loadConfig(); err != nil {
				return err
			}
			backend, err := platform.NewLinuxBackendFromDisplay(a.logger)
			if err != nil {
				return err
			}
			defer backend.Disconnect()

			displays, err := backend.Displays()
			if err != nil {
				return fmt.Errorf("failed to list displays: %w", err)
			}

			out := cmd.OutOrStdout()
			name := color.New(color.FgCyan, color.Bold).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()
			if len(displays) == 0 {
				fmt.Fprintln(out, color.YellowString("no active displays"))
				return nil
			}
			for _, d := range displays {
				fmt.Fprintf(out, "%d  %s  %s  %s\n", d.ID, name(d.Name), formatRect(d.Bounds), dim("usable "+formatRect(d.Usable)))
			}
			return nil
		},
	}
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
