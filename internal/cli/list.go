package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"file-categorizer/internal/store"
)

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files in the database",
		Long: `List stored file records, most recently modified first.

Examples:
  filecat list
  filecat list --category lightburn --limit 20
  filecat list --exists-only --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, a)
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().Bool("exists-only", false, "Only show files that still exist on disk")

	return cmd
}

func runList(cmd *cobra.Command, a *app) error {
	criteria := criteriaFromFlags(cmd, a)
	criteria.ExistsOnly, _ = cmd.Flags().GetBool("exists-only")

	st, err := store.New(cmd.Context(), a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	results, err := st.Search(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	if len(results) == 0 {
		fmt.Fprintln(out, "No files found in the database.")
		return nil
	}
	if err := renderRecords(out, results, format); err != nil {
		return err
	}
	if format == formatTable {
		fmt.Fprintf(out, "\n%s\n", color.GreenString("Listed %d file(s)", len(results)))
	}
	return nil
}
