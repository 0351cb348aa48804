package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-nxfs/internal/device"
	"github.com/deploymenttheory/go-nxfs/internal/parsers/romfs"
)

func TestDetectFormat(t *testing.T) {
	flat := buildPartitionImage(false, []archiveEntry{{name: "a", content: []byte{1}}})
	hashed := buildPartitionImage(true, []archiveEntry{{name: "a", content: []byte{1}, hashSize: 1}})

	romBuilder := romfs.NewImageBuilder()
	romBuilder.AddFile(0, "f", []byte{1})
	rom := romBuilder.Build()

	tests := []struct {
		name  string
		image []byte
		want  Format
	}{
		{"flat partition", flat, FormatPartition},
		{"hashed partition", hashed, FormatSha256Partition},
		{"rom image", rom, FormatRomFs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(device.NewMemoryStorage(tt.image))
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
		})
	}

	_, err := DetectFormat(device.NewMemoryStorage([]byte("garbage data, not an image")))
	assert.Error(t, err, "garbage should not detect as any format")
}

func TestOpenFileSystem(t *testing.T) {
	flat := buildPartitionImage(false, []archiveEntry{{name: "a", content: []byte{1}}})

	fs, format, err := OpenFileSystem(device.NewMemoryStorage(flat))
	require.NoError(t, err)
	assert.Equal(t, FormatPartition, format)
	assert.IsType(t, &PartitionFileSystem{}, fs)

	romBuilder := romfs.NewImageBuilder()
	romBuilder.AddFile(0, "f", []byte{7})
	fs, format, err = OpenFileSystem(device.NewMemoryStorage(romBuilder.Build()))
	require.NoError(t, err)
	assert.Equal(t, FormatRomFs, format)
	assert.IsType(t, &RomFileSystem{}, fs)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "pfs0", FormatPartition.String())
	assert.Equal(t, "hfs0", FormatSha256Partition.String())
	assert.Equal(t, "romfs", FormatRomFs.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
