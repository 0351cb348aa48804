package cmd

import (
	"fmt"
	"path"

	"github.com/deploymenttheory/go-nxfs/internal/device"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/services"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// openImage opens an archive image file and binds the matching filesystem.
func openImage(imagePath string) (*device.FileStorage, interfaces.FileSystem, services.Format, error) {
	storage, err := device.OpenFileStorage(imagePath)
	if err != nil {
		return nil, nil, services.FormatUnknown, err
	}

	fs, format, err := services.OpenFileSystem(storage)
	if err != nil {
		storage.Close()
		return nil, nil, format, err
	}

	return storage, fs, format, nil
}

// walkFunc receives each entry's full path, type, and size.
type walkFunc func(entryPath string, entryType types.DirectoryEntryType, size int64) error

// walkDirectory streams dirPath's children, recursing into subdirectories.
func walkDirectory(fs interfaces.FileSystem, dirPath string, fn walkFunc) error {
	dir, err := fs.OpenDirectory(dirPath, types.OpenDirectoryModeAll)
	if err != nil {
		return err
	}

	entries := make([]interfaces.DirectoryEntry, 32)
	for {
		n, err := dir.Read(entries)
		if err != nil {
			return fmt.Errorf("failed to enumerate %s: %w", dirPath, err)
		}
		if n == 0 {
			return nil
		}
		for i := 0; i < n; i++ {
			entryPath := path.Join(dirPath, entries[i].EntryName())
			if err := fn(entryPath, entries[i].Type, entries[i].Size); err != nil {
				return err
			}
			if entries[i].Type == types.DirectoryEntryTypeDirectory {
				if err := walkDirectory(fs, entryPath, fn); err != nil {
					return err
				}
			}
		}
	}
}
