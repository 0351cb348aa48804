package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

var (
	extractSrc string
	extractOut string
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-path]",
	Short: "Extract files or the whole archive",
	Long: `Extract archive content to the local filesystem. Hashed entries are
verified during extraction; a failed entry produces no output file.

Examples:
  # Extract everything
  nxfs extract update.pfs0 --out ./extracted

  # Extract one file from a ROM image
  nxfs extract data.romfs --src /a/b/c.bin --out ./extracted`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExtract(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractSrc, "src", types.RootPath, "archive path to extract")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (default from config)")
}

func runExtract(imagePath string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	outputDir := extractOut
	if outputDir == "" {
		outputDir = config.OutputDir
	}

	storage, fs, format, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer storage.Close()

	if verbose {
		fmt.Printf("format: %s, output: %s\n", format, outputDir)
	}

	entryType, err := fs.GetEntryType(extractSrc)
	if err != nil {
		return err
	}
	if entryType == types.DirectoryEntryTypeFile {
		return extractFile(fs, extractSrc, outputDir, config.ReadChunkSize)
	}

	return walkDirectory(fs, extractSrc, func(entryPath string, et types.DirectoryEntryType, size int64) error {
		if et == types.DirectoryEntryTypeDirectory {
			return os.MkdirAll(filepath.Join(outputDir, filepath.FromSlash(entryPath)), 0o755)
		}
		return extractFile(fs, entryPath, outputDir, config.ReadChunkSize)
	})
}

func extractFile(fs interfaces.FileSystem, src, outputDir string, chunkSize int) error {
	file, err := fs.OpenFile(src, types.OpenModeRead)
	if err != nil {
		return err
	}

	size, err := file.GetSize()
	if err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, filepath.FromSlash(src))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer out.Close()

	if chunkSize <= 0 {
		chunkSize = 1024 * 1024
	}
	buf := make([]byte, chunkSize)
	for offset := int64(0); offset < size; {
		n, err := file.Read(offset, buf)
		if err != nil {
			os.Remove(outputPath)
			return fmt.Errorf("failed to read %s at %d: %w", src, offset, err)
		}
		if n == 0 {
			break
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		offset += int64(n)
	}

	if !quiet {
		fmt.Printf("extracted %s (%d bytes)\n", src, size)
	}
	return nil
}
