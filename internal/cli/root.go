// Package cli provides the Cobra command structure for rtn.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root rtn command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "rtn",
		Short: "Render tab-indented outlines as tree diagrams",
		Long: `rtn turns tab-indented plaintext outlines into UNIX tree style diagrams.

Lines are drawn with the connectors │ ├── └── and resolved live as the
outline changes. DirNav addresses such as RTN/[0]/[intro]/ point at other
lines of the same outline and are validated on every render. Outlines can be
shared as compressed links, saved as .rtn documents, imported from Markdown,
and checked or formatted in bulk.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Diagram commands.
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newUnformatCommand())
	rootCmd.AddCommand(newWatchCommand())

	// Navigation.
	rootCmd.AddCommand(newNavCommand())
	rootCmd.AddCommand(newLinksCommand())

	// Persistence.
	rootCmd.AddCommand(newShareCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newOpenCommand())
	rootCmd.AddCommand(newImportCommand())

	// Bulk operations.
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newFmtCommand())

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))
	rootCmd.AddCommand(newAddressesTopic())

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
