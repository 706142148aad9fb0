package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"file-categorizer/internal/store"
)

func newCleanupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reconcile the database with the filesystem",
		Long: `Probe every stored path and flag records whose file no longer exists.
With --purge, missing records are deleted instead of flagged. Use
--dry-run to preview either mode without touching the database.

Examples:
  filecat cleanup --dry-run
  filecat cleanup
  filecat cleanup --purge`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCleanup(cmd, a)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Preview cleanup without making changes")
	cmd.Flags().Bool("purge", false, "Delete missing records instead of flagging them")
	cmd.Flags().Int("batch-size", 0, "Records to probe per batch (default from config)")
	cmd.Flags().BoolP("verbose", "v", false, "List affected paths")

	return cmd
}

func runCleanup(cmd *cobra.Command, a *app) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	purge, _ := cmd.Flags().GetBool("purge")
	verbose, _ := cmd.Flags().GetBool("verbose")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	if batchSize <= 0 {
		batchSize = a.cfg.Cleanup.BatchSize
	}

	st, err := store.New(cmd.Context(), a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	var result store.CleanupResult
	if purge {
		result, err = st.PurgeMissing(cmd.Context(), dryRun, batchSize, nil)
	} else {
		result, err = st.ReconcileExistence(cmd.Context(), dryRun, batchSize, nil)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, color.YellowString("Cleanup preview (no changes made)"))
	} else {
		fmt.Fprintln(out, color.GreenString("Cleanup completed"))
	}
	fmt.Fprintf(out, "Files checked: %d\n", result.TotalChecked)

	verb := "flagged as missing"
	if purge {
		verb = "removed"
	}
	if dryRun {
		verb = "would be " + verb
	}
	fmt.Fprintf(out, "Files %s: %d\n", verb, result.AffectedCount)

	if result.AffectedCount > 0 {
		fmt.Fprintf(out, "Cleanup rate: %.1f%%\n", result.CleanupRate()*100)
		if verbose {
			shown := result.AffectedPaths
			if len(shown) > 20 {
				shown = shown[:20]
			}
			for _, p := range shown {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			if rest := len(result.AffectedPaths) - len(shown); rest > 0 {
				fmt.Fprintf(out, "  ... and %d more files\n", rest)
			}
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "%s\n", color.RedString("Errors encountered: %d", len(result.Errors)))
		if verbose {
			shown := result.Errors
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for _, e := range shown {
				fmt.Fprintf(out, "  - %s\n", e)
			}
		}
	}

	if dryRun && result.AffectedCount > 0 {
		fmt.Fprintln(out, "Run again without --dry-run to apply these changes.")
	}
	return nil
}
