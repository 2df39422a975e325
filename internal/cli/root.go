// Package cli implements the labelpress command-line interface.
//
// Commands render single labels, compose print sheets, generate offline
// token batches, and serve the rendering pipeline over HTTP. All commands
// support --verbose (-v) for debug-level logging; loggers travel through
// context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Called
// by the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the labelpress CLI.
//
// Logging defaults to info level on stderr; --verbose (-v) raises it to
// debug. The logger is attached to the context and retrieved by commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "labelpress",
		Short:        "Labelpress renders label templates into print artwork",
		Long:         `Labelpress converts vector label templates plus placeable QR and barcode marks into physically accurate print artwork, as single labels or paginated multi-label sheets.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("labelpress %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLabelCmd())
	root.AddCommand(newSheetCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
