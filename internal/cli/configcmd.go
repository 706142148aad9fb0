package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"file-categorizer/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			cfg := a.cfg
			fmt.Fprintf(out, "database:\n  path: %s\n", cfg.Database.Path)
			fmt.Fprintf(out, "scan:\n  recursive: %v\n  include_hidden: %v\n  max_file_size_mb: %d\n  batch_size: %d\n",
				cfg.Scan.Recursive, cfg.Scan.IncludeHidden, cfg.Scan.MaxFileSizeMB, cfg.Scan.BatchSize)
			fmt.Fprintf(out, "cleanup:\n  batch_size: %d\n", cfg.Cleanup.BatchSize)
			fmt.Fprintf(out, "web:\n  host: %s\n  port: %d\n  compression: %v\n",
				cfg.Web.Host, cfg.Web.Port, cfg.Web.Compression)
			fmt.Fprintf(out, "logging:\n  level: %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "search:\n  limit: %d\n", cfg.Search.Limit)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteDefault(); err != nil {
				return err
			}
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file ready at %s/config.yaml\n", dir)
			return nil
		},
	})

	return cmd
}
