package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/services"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [image-path]",
	Short: "Re-read hashed entries and report digest failures",
	Long: `Force a full read of every entry in a hashed partition image so each
embedded SHA-256 digest is recomputed and checked. Exits non-zero if any
entry fails verification.`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runVerify(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(imagePath string) error {
	storage, fs, format, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer storage.Close()

	if format != services.FormatSha256Partition {
		return fmt.Errorf("%s is a %s image; only hfs0 images carry digests", imagePath, format)
	}

	failures := 0
	err = walkDirectory(fs, types.RootPath, func(entryPath string, et types.DirectoryEntryType, size int64) error {
		if et != types.DirectoryEntryTypeFile {
			return nil
		}
		file, err := fs.OpenFile(entryPath, types.OpenModeRead)
		if err != nil {
			return err
		}
		buf := make([]byte, size)
		if _, err := file.Read(0, buf); err != nil {
			if fserrors.IsHashVerificationFailed(err) {
				failures++
				fmt.Printf("FAIL  %s\n", entryPath)
				return nil
			}
			return err
		}
		if !quiet {
			fmt.Printf("ok    %s\n", entryPath)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d entries failed verification", failures)
	}
	return nil
}
