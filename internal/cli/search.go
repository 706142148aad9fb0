package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"file-categorizer/internal/category"
	"file-categorizer/internal/store"
)

func newSearchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search for files in the database",
		Long: `Search stored file records by filename or path substring, optionally
filtered by category and size.

Examples:
  filecat search logo
  filecat search --category vector --min-size 1024
  filecat search dragon --format csv > dragons.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return runSearch(cmd, a, query)
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().Int64("min-size", -1, "Minimum file size in bytes")
	cmd.Flags().Int64("max-size", -1, "Maximum file size in bytes")

	return cmd
}

// addQueryFlags registers the flags shared by search and list.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", "", "Filter by file category (graphics, lightburn, vector)")
	cmd.Flags().StringP("format", "f", formatTable, "Output format: table, json, csv")
	cmd.Flags().Int("limit", 0, "Maximum number of results (default from config)")
}

// criteriaFromFlags builds search criteria from the shared flags.
func criteriaFromFlags(cmd *cobra.Command, a *app) store.SearchCriteria {
	criteria := store.SearchCriteria{Limit: a.cfg.Search.Limit}
	if c, _ := cmd.Flags().GetString("category"); c != "" {
		criteria.Category = category.Category(c)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		criteria.Limit = limit
	}
	return criteria
}

func runSearch(cmd *cobra.Command, a *app, query string) error {
	criteria := criteriaFromFlags(cmd, a)
	criteria.Query = query
	if v, _ := cmd.Flags().GetInt64("min-size"); v >= 0 {
		criteria.MinSize = &v
	}
	if v, _ := cmd.Flags().GetInt64("max-size"); v >= 0 {
		criteria.MaxSize = &v
	}

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
		fmt.Fprintln(out, "No files found matching the search criteria.")
		return nil
	}
	if err := renderRecords(out, results, format); err != nil {
		return err
	}
	if format == formatTable {
		fmt.Fprintf(out, "\n%s\n", color.GreenString("Found %d file(s)", len(results)))
	}
	return nil
}
