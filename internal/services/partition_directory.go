// File: internal/services/partition_directory.go
package services

import (
	"sync"

	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// partitionMetaView is the slice of the parsed metadata a directory cursor
// needs; both the flat and the hashed meta satisfy it.
type partitionMetaView interface {
	EntryCount() int
	EntrySize(i int) int64
	EntryName(i int) string
}

// partitionDirectory is a cursor over the flat archive root. The archive has
// no subdirectories, so only file entries are ever emitted.
type partitionDirectory struct {
	mu    sync.Mutex
	meta  partitionMetaView
	mode  types.OpenDirectoryMode
	index int
}

// Read emits the next batch of file entries, advancing the cursor. A handle
// opened without the file mode emits nothing.
func (d *partitionDirectory) Read(entries []interfaces.DirectoryEntry) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode&types.OpenDirectoryModeFile == 0 {
		return 0, nil
	}

	count := 0
	for count < len(entries) && d.index < d.meta.EntryCount() {
		entry := &entries[count]
		entry.Type = types.DirectoryEntryTypeFile
		entry.Size = d.meta.EntrySize(d.index)
		entry.SetEntryName(d.meta.EntryName(d.index))
		d.index++
		count++
	}
	return count, nil
}

// GetEntryCount returns the archive entry count when files are requested,
// otherwise 0.
func (d *partitionDirectory) GetEntryCount() (int64, error) {
	if d.mode&types.OpenDirectoryModeFile == 0 {
		return 0, nil
	}
	return int64(d.meta.EntryCount()), nil
}

var _ interfaces.Directory = (*partitionDirectory)(nil)
