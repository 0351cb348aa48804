package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-nxfs/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list [image-path]",
	Short: "List archive entries",
	Long: `List every entry of an archive image.

Examples:
  # List a flat partition archive
  nxfs list update.pfs0

  # List a ROM image tree
  nxfs list data.romfs`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(imagePath string) error {
	storage, fs, format, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer storage.Close()

	if verbose {
		fmt.Printf("format: %s\n", format)
	}

	return walkDirectory(fs, types.RootPath, func(entryPath string, entryType types.DirectoryEntryType, size int64) error {
		if entryType == types.DirectoryEntryTypeDirectory {
			if !quiet {
				fmt.Printf("%12s  %s/\n", "", entryPath)
			}
			return nil
		}
		if !quiet {
			fmt.Printf("%12d  %s\n", size, entryPath)
		}
		return nil
	})
}
