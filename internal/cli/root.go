// Package cli implements the filecat command surface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"file-categorizer/internal/config"
	"file-categorizer/internal/logging"
	"file-categorizer/internal/version"
)

// app carries state shared by all subcommands: the loaded
// configuration, populated by the root command's PersistentPreRunE.
type app struct {
	cfg *config.Config
}

// NewRootCommand creates and returns the root cobra command for filecat
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "filecat",
		Short: "Scan, categorize, and track design files",
		Long: `Filecat scans directories for graphics, LightBurn, and vector design
files, classifies them by extension, and tracks them in a local SQLite
database.

Stored records can be searched and listed from the command line or
served over a REST API with the serve command. Configuration is read
from $XDG_CONFIG_HOME/filecat/config.yaml; every setting can also be
supplied via FILECAT_-prefixed environment variables.`,
		Version: version.Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			levelName := cfg.Logging.Level
			if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
				levelName = flag
			}
			level, ok := logging.ParseLevel(levelName)
			if !ok {
				return fmt.Errorf("invalid log level %q", levelName)
			}
			logging.SetLevel(level)
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")

	cmd.AddCommand(newScanCommand(a))
	cmd.AddCommand(newSearchCommand(a))
	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newCleanupCommand(a))
	cmd.AddCommand(newRemoveCommand(a))
	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newConfigCommand(a))

	return cmd
}
