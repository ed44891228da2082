// Package cli wires the HELIOS terminal into cobra commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/helios-os/helios/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	SavePath string // overrides HELIOS_SAVE_PATH when set
}

// NewRootCommand creates the root command for the helios CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "helios",
		Short: "HELIOS - shipboard terminal, UES Meridian",
		Long:  "An interactive bridge session with the HELIOS shipboard AI.",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.SavePath, "save-path", "", "save database path (default from HELIOS_SAVE_PATH)")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewSavesCommand(opts))

	return cmd
}

// loadSettings merges environment settings with flag overrides.
func loadSettings(opts *RootOptions) (config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}
	if opts.SavePath != "" {
		settings.SavePath = opts.SavePath
	}
	return settings, nil
}

// newLogger builds the process logger. Logs go to stderr so they never
// interleave with terminal output on stdout.
func newLogger(opts *RootOptions, settings config.Settings) (*slog.Logger, error) {
	level, err := settings.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
