package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"file-categorizer/internal/store"
)

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a file record from the database",
		Long: `Remove a single record by its identifier. The file on disk is not
touched. Record identifiers are shown by search and list with
--format json or csv.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(cmd.Context(), a.cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			removed, err := st.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no record found with id %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Record removed"))
			return nil
		},
	}
}
