// File: internal/services/detect.go
package services

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/parsers/romfs"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// Format identifies which archive layout a storage image carries.
type Format int

const (
	FormatUnknown Format = iota
	FormatPartition
	FormatSha256Partition
	FormatRomFs
)

// String returns the short format name used by the CLI.
func (f Format) String() string {
	switch f {
	case FormatPartition:
		return "pfs0"
	case FormatSha256Partition:
		return "hfs0"
	case FormatRomFs:
		return "romfs"
	default:
		return "unknown"
	}
}

// DetectFormat sniffs the image format: a partition magic at offset 0, or a
// ROM header that parses cleanly.
func DetectFormat(storage interfaces.Storage) (Format, error) {
	size, err := storage.Size()
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to query storage size: %w", err)
	}
	if size >= 4 {
		magic := make([]byte, 4)
		if err := storage.Read(0, magic); err != nil {
			return FormatUnknown, err
		}
		switch {
		case bytes.Equal(magic, []byte(types.PartitionMagic)):
			return FormatPartition, nil
		case bytes.Equal(magic, []byte(types.Sha256PartitionMagic)):
			return FormatSha256Partition, nil
		}
	}
	if size >= types.RomFsHeaderSize {
		if _, err := romfs.ParseHeader(storage); err == nil {
			return FormatRomFs, nil
		}
	}
	return FormatUnknown, fmt.Errorf("image matches no known archive layout: %w", fserrors.ErrInvalidPartitionFileSystem)
}

// OpenFileSystem detects the image format and returns an initialized
// filesystem for it.
func OpenFileSystem(storage interfaces.Storage) (interfaces.FileSystem, Format, error) {
	format, err := DetectFormat(storage)
	if err != nil {
		return nil, format, err
	}

	switch format {
	case FormatPartition:
		fs := NewPartitionFileSystem()
		if err := fs.Initialize(storage); err != nil {
			return nil, format, err
		}
		return fs, format, nil
	case FormatSha256Partition:
		fs := NewSha256PartitionFileSystem()
		if err := fs.Initialize(storage); err != nil {
			return nil, format, err
		}
		return fs, format, nil
	case FormatRomFs:
		fs := NewRomFileSystem()
		if err := fs.Initialize(storage, nil); err != nil {
			return nil, format, err
		}
		return fs, format, nil
	default:
		return nil, format, fmt.Errorf("image matches no known archive layout: %w", fserrors.ErrInvalidPartitionFileSystem)
	}
}
