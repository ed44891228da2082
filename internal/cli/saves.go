package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/helios-os/helios/internal/save"
)

// NewSavesCommand creates the saved-session listing command.
func NewSavesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "list saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(opts)
			if err != nil {
				return err
			}
			store, err := save.Open(settings.SavePath)
			if err != nil {
				return err
			}
			defer store.Close()
			return printSaves(cmd.Context(), cmd.OutOrStdout(), store)
		},
	}
}

func printSaves(ctx context.Context, out io.Writer, store *save.Store) error {
	infos, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(out, "No saved sessions.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(out, "#%-4d %s\n", info.ID, info.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
