// File: internal/services/rom_directory.go
package services

import (
	"sync"

	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/parsers/romfs"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// romDirectory is a cursor over one directory of a ROM image. Child
// directories stream first, then child files, both in table insertion order.
type romDirectory struct {
	mu          sync.Mutex
	table       *romfs.FileTable
	mode        types.OpenDirectoryMode
	currentDir  uint32
	currentFile uint32
}

// Read emits the next batch of children, advancing the cursors. Repeated
// calls stream the full listing exactly once.
func (d *romDirectory) Read(entries []interfaces.DirectoryEntry) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0

	if d.mode&types.OpenDirectoryModeDirectory != 0 {
		for count < len(entries) && d.currentDir != types.RomInvalidEntry {
			child, err := d.table.DirectoryEntryAt(d.currentDir)
			if err != nil {
				return count, err
			}
			entry := &entries[count]
			entry.Type = types.DirectoryEntryTypeDirectory
			entry.Size = 0
			entry.SetEntryName(child.Name)
			d.currentDir = child.NextSibling
			count++
		}
	} else {
		d.currentDir = types.RomInvalidEntry
	}

	if d.mode&types.OpenDirectoryModeFile != 0 {
		for count < len(entries) && d.currentFile != types.RomInvalidEntry {
			child, err := d.table.FileEntryAt(d.currentFile)
			if err != nil {
				return count, err
			}
			entry := &entries[count]
			entry.Type = types.DirectoryEntryTypeFile
			entry.Size = int64(child.DataSize)
			entry.SetEntryName(child.Name)
			d.currentFile = child.NextSibling
			count++
		}
	}

	return count, nil
}

// GetEntryCount walks the remaining child lists and returns how many entries
// the open mode exposes in total.
func (d *romDirectory) GetEntryCount() (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var count int64

	if d.mode&types.OpenDirectoryModeDirectory != 0 {
		for offset := d.currentDir; offset != types.RomInvalidEntry; {
			child, err := d.table.DirectoryEntryAt(offset)
			if err != nil {
				return 0, err
			}
			count++
			offset = child.NextSibling
		}
	}

	if d.mode&types.OpenDirectoryModeFile != 0 {
		for offset := d.currentFile; offset != types.RomInvalidEntry; {
			child, err := d.table.FileEntryAt(offset)
			if err != nil {
				return 0, err
			}
			count++
			offset = child.NextSibling
		}
	}

	return count, nil
}

var _ interfaces.Directory = (*romDirectory)(nil)
