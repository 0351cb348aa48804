package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global output flags only
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "nxfs",
	Short: "Read-only partition and ROM archive explorer",
	Long: `nxfs is a cross-platform, read-only command-line tool for exploring,
extracting, and verifying partition filesystem images (PFS0), their
SHA-256 hashed variant (HFS0), and hierarchical ROM images.

Works directly with raw image files without mounting. Hashed entries are
verified against their embedded digests before any byte is emitted.

Commands:
  list        List archive entries
  extract     Extract files or the whole archive
  info        Show header and metadata details
  verify      Re-read hashed entries and report digest failures`,
	Version: "0.1.0-dev",
}

// Execute runs the root command and exits with status 1 if it returns an error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
}
