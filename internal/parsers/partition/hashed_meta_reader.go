// File: internal/parsers/partition/hashed_meta_reader.go
package partition

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// HashedMeta holds the parsed metadata of a hashed partition image. The
// extended entry records carry the SHA-256 digest and the hashed region of
// each file; everything else matches Meta.
type HashedMeta struct {
	header       types.PartitionHeader
	entries      []types.Sha256PartitionEntry
	stringPool   []byte
	metaDataSize int64
}

// NewHashedMetaReader parses the hashed partition metadata at offset 0 of
// storage.
func NewHashedMetaReader(storage interfaces.Storage) (*HashedMeta, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}

	header, err := parseHeader(storage, types.Sha256PartitionMagic)
	if err != nil {
		return nil, err
	}

	tableSize := int64(header.EntryCount) * types.Sha256PartitionEntrySize
	metaDataSize := types.PartitionHeaderSize + tableSize + int64(header.StringTableSize)

	storageSize, err := storage.Size()
	if err != nil {
		return nil, fmt.Errorf("failed to query storage size: %w", err)
	}
	if metaDataSize > storageSize {
		return nil, fmt.Errorf("metadata spans %d bytes but storage holds %d: %w", metaDataSize, storageSize, fserrors.ErrInvalidPartitionFileSystem)
	}

	m := &HashedMeta{
		header:       header,
		entries:      make([]types.Sha256PartitionEntry, header.EntryCount),
		metaDataSize: metaDataSize,
	}

	if tableSize > 0 {
		table := make([]byte, tableSize)
		if err := storage.Read(types.PartitionHeaderSize, table); err != nil {
			return nil, fmt.Errorf("failed to read entry table: %w", err)
		}
		for i := range m.entries {
			rec := table[i*types.Sha256PartitionEntrySize:]
			e := types.Sha256PartitionEntry{
				Offset:           binary.LittleEndian.Uint64(rec[0:8]),
				Size:             binary.LittleEndian.Uint64(rec[8:16]),
				NameOffset:       binary.LittleEndian.Uint32(rec[16:20]),
				HashTargetSize:   binary.LittleEndian.Uint32(rec[20:24]),
				HashTargetOffset: binary.LittleEndian.Uint64(rec[24:32]),
			}
			copy(e.Hash[:], rec[32:64])
			m.entries[i] = e
		}
	}

	m.stringPool, err = readStringPool(storage, types.PartitionHeaderSize+tableSize, header.StringTableSize)
	if err != nil {
		return nil, err
	}

	dataRegion := storageSize - metaDataSize
	for i := range m.entries {
		e := &m.entries[i]
		if e.NameOffset >= header.StringTableSize {
			return nil, fmt.Errorf("entry %d name offset %d outside string table of %d bytes: %w", i, e.NameOffset, header.StringTableSize, fserrors.ErrInvalidPartitionFileSystem)
		}
		if e.Offset+e.Size < e.Offset || e.Offset+e.Size > uint64(dataRegion) {
			return nil, fmt.Errorf("entry %d extent [%d, %d) outside data region of %d bytes: %w", i, e.Offset, e.Offset+e.Size, dataRegion, fserrors.ErrInvalidPartitionFileSystem)
		}
	}

	return m, nil
}

// EntryCount returns the number of entries in the archive.
func (m *HashedMeta) EntryCount() int {
	return len(m.entries)
}

// Entry returns the entry record at index i.
func (m *HashedMeta) Entry(i int) *types.Sha256PartitionEntry {
	return &m.entries[i]
}

// EntrySize returns the content length of the entry at index i.
func (m *HashedMeta) EntrySize(i int) int64 {
	return int64(m.entries[i].Size)
}

// EntryName returns the name of the entry at index i.
func (m *HashedMeta) EntryName(i int) string {
	return nameAt(m.stringPool, m.entries[i].NameOffset)
}

// EntryIndex returns the index of the entry named name, or -1.
func (m *HashedMeta) EntryIndex(name string) int {
	for i := range m.entries {
		if nameEquals(m.stringPool, m.entries[i].NameOffset, name) {
			return i
		}
	}
	return -1
}

// MetaDataSize returns the byte offset at which file data begins.
func (m *HashedMeta) MetaDataSize() int64 {
	return m.metaDataSize
}
