package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"file-categorizer/internal/scanner"
	"file-categorizer/internal/store"
)

func newScanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory for categorizable files",
		Long: `Scan a directory tree for graphics, LightBurn, and vector files and
record them in the database. Re-scanning a path updates its record in
place.

Examples:
  filecat scan ~/designs
  filecat scan --no-recursive ~/inbox
  filecat scan --max-depth 2 --include-hidden /mnt/archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a, args[0])
		},
	}

	cmd.Flags().Bool("recursive", false, "Scan directories recursively (default from config)")
	cmd.Flags().Bool("no-recursive", false, "Do not descend into subdirectories")
	cmd.Flags().Int("max-depth", -1, "Maximum directory depth below the root (-1 = unlimited)")
	cmd.Flags().Bool("include-hidden", false, "Include hidden (dot-prefixed) files")
	cmd.Flags().BoolP("verbose", "v", false, "Print per-file warnings")

	return cmd
}

func runScan(cmd *cobra.Command, a *app, root string) error {
	opts := scanner.Options{
		Recursive:     a.cfg.Scan.Recursive,
		IncludeHidden: a.cfg.Scan.IncludeHidden,
		MaxFileSize:   a.cfg.MaxFileSizeBytes(),
	}
	if v, _ := cmd.Flags().GetBool("recursive"); v {
		opts.Recursive = true
	}
	if v, _ := cmd.Flags().GetBool("no-recursive"); v {
		opts.Recursive = false
	}
	if v, _ := cmd.Flags().GetBool("include-hidden"); v {
		opts.IncludeHidden = true
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		opts.Verbose = true
	}
	if depth, _ := cmd.Flags().GetInt("max-depth"); depth >= 0 {
		opts.MaxDepth = &depth
	}

	if err := scanner.ValidateRoot(root); err != nil {
		return err
	}

	st, err := store.New(cmd.Context(), a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	// Ctrl-C stops the walk; records collected so far are still saved.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	start := time.Now()
	sc := scanner.New(opts)

	var (
		records   []store.FileRecord
		processed int
	)
	warnings, err := sc.Walk(ctx, root, func(path string, record *store.FileRecord) error {
		processed++
		if record != nil {
			records = append(records, *record)
		}
		return nil
	})
	cancelled := ctx.Err() != nil
	if err != nil && !cancelled {
		return err
	}
	if cancelled {
		fmt.Fprintln(out, color.YellowString("Scan interrupted; saving files found so far"))
	}

	if len(records) > 0 {
		if err := st.UpsertBatch(context.Background(), records); err != nil {
			return fmt.Errorf("saving records: %w", err)
		}
	}

	fmt.Fprintf(out, "%s in %.2f seconds\n", color.GreenString("Scan completed"), time.Since(start).Seconds())
	fmt.Fprintf(out, "Total files processed: %d\n", processed)
	fmt.Fprintf(out, "Categorizable files found: %d\n", len(records))
	fmt.Fprintf(out, "Files saved to database: %d\n", len(records))

	if len(warnings) > 0 {
		fmt.Fprintf(out, "%s\n", color.YellowString("Warnings: %d", len(warnings)))
		if opts.Verbose {
			shown := warnings
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for _, w := range shown {
				fmt.Fprintf(out, "  - %s\n", w)
			}
			if rest := len(warnings) - len(shown); rest > 0 {
				fmt.Fprintf(out, "  ... and %d more warnings\n", rest)
			}
		}
	}

	if processed > 0 {
		fmt.Fprintf(out, "Success rate: %.1f%%\n", float64(len(records))/float64(processed)*100)
	}
	return nil
}
