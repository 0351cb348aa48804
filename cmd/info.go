package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-nxfs/internal/services"
)

var infoCmd = &cobra.Command{
	Use:   "info [image-path]",
	Short: "Show header and metadata details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInfo(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(imagePath string) error {
	storage, fs, format, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer storage.Close()

	size, err := storage.Size()
	if err != nil {
		return err
	}

	fmt.Printf("image:  %s\n", imagePath)
	fmt.Printf("format: %s\n", format)
	fmt.Printf("size:   %d bytes\n", size)

	switch v := fs.(type) {
	case *services.PartitionFileSystem:
		fmt.Printf("mount:  %s\n", v.MountID())
	case *services.Sha256PartitionFileSystem:
		fmt.Printf("mount:  %s\n", v.MountID())
	case *services.RomFileSystem:
		fmt.Printf("mount:  %s\n", v.MountID())
		work, err := services.GetRequiredWorkingMemorySize(storage)
		if err != nil {
			return err
		}
		fmt.Printf("table:  %d bytes working memory\n", work)
		header := v.GetRomFileTable().Header()
		fmt.Printf("data:   begins at offset %d\n", header.DataOffset)
	}

	return nil
}
