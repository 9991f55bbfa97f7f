package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tinygadget/internal/config"
	"github.com/1broseidon/tinygadget/internal/prefs"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, print or validate the configuration",
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.loadConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("config: ok"))
			return nil
		},
	}

	var printDefaults bool
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if !printDefaults {
				var err error
				if cfg, err = a.loadConfig(); err != nil {
					return err
				}
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	printCmd.Flags().BoolVar(&printDefaults, "defaults", false, "Print built-in defaults (no files)")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			cfg := config.DefaultConfig()
			if err := runInitForm(cfg); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), initSummary(cfg))
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("wrote %s", path))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	cmd.AddCommand(validate, printCmd, initCmd)
	return cmd
}

func runInitForm(cfg *config.Config) error {
	store := string(cfg.Store)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("namespace").
				Title("Namespace").
				Description("Key for the saved window geometry").
				Validate(prefs.ValidateNamespace).
				Value(&cfg.Namespace),

			huh.NewInput().
				Key("title").
				Title("Window Title").
				Value(&cfg.Title),

			huh.NewSelect[string]().
				Key("zoom_modifier").
				Title("Zoom Modifier").
				Description("Hold while scrolling to resize").
				Options(huh.NewOptions("control", "shift", "alt", "super")...).
				Value(&cfg.ZoomModifier),

			huh.NewInput().
				Key("close_label").
				Title("Close Label").
				Description("Text of the context menu item").
				Value(&cfg.CloseLabel),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("taskbar_hidden").
				Title("Hide from taskbar and task switcher?").
				Value(&cfg.TaskbarHidden),

			huh.NewConfirm().
				Key("sticky").
				Title("Show on every virtual desktop?").
				Value(&cfg.Sticky),

			huh.NewConfirm().
				Key("persist").
				Title("Remember position and size?").
				Value(&cfg.Persist),

			huh.NewSelect[string]().
				Key("store").
				Title("Preference Store").
				Options(
					huh.NewOption("YAML file per namespace", string(config.StoreFile)),
					huh.NewOption("SQLite database", string(config.StoreSQLite)),
				).
				Value(&store),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		return err
	}
	cfg.Store = config.StoreKind(store)
	return cfg.Validate()
}

var (
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3498db")).
			Padding(0, 1)
	summaryKey = lipgloss.NewStyle().Bold(true).Width(16)
)

func initSummary(cfg *config.Config) string {
	rows := [][2]string{
		{"namespace", cfg.Namespace},
		{"title", cfg.Title},
		{"zoom modifier", cfg.ZoomModifier},
		{"close label", cfg.CloseLabel},
		{"taskbar hidden", fmt.Sprint(cfg.TaskbarHidden)},
		{"sticky", fmt.Sprint(cfg.Sticky)},
		{"persist", fmt.Sprintf("%t (%s)", cfg.Persist, cfg.Store)},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, summaryKey.Render(row[0]), row[1]))
	}
	return summaryBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
