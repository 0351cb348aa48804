package romfs

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-nxfs/internal/device"
	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

func buildNestedImage() []byte {
	b := NewImageBuilder()
	a := b.AddDirectory(0, "a")
	ab := b.AddDirectory(a, "b")
	b.AddFile(ab, "c.bin", []byte("xyz"))
	b.AddFile(0, "top.txt", []byte("hello"))
	return b.Build()
}

func TestRequiredWorkingMemorySize(t *testing.T) {
	image := buildNestedImage()
	storage := device.NewMemoryStorage(image)

	size, err := RequiredWorkingMemorySize(storage)
	if err != nil {
		t.Fatalf("RequiredWorkingMemorySize failed: %v", err)
	}

	header, err := ParseHeader(storage)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	want := int64(header.DirectoryBucketSize + header.DirectoryEntrySize + header.FileBucketSize + header.FileEntrySize)
	if size != want {
		t.Errorf("Expected %d bytes, got %d", want, size)
	}
}

func TestFileTableLookup(t *testing.T) {
	image := buildNestedImage()

	table, err := NewFileTableReader(device.NewMemoryStorage(image), nil)
	if err != nil {
		t.Fatalf("NewFileTableReader failed: %v", err)
	}

	info, err := table.OpenFile("/a/b/c.bin")
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if info.DataSize != 3 {
		t.Errorf("Expected data size 3, got %d", info.DataSize)
	}

	top, err := table.OpenFile("/top.txt")
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if top.DataSize != 5 {
		t.Errorf("Expected data size 5, got %d", top.DataSize)
	}
	if top.DataOffset != info.DataOffset+info.DataSize {
		t.Errorf("Expected top.txt data at %d, got %d", info.DataOffset+info.DataSize, top.DataOffset)
	}

	tests := []struct {
		name string
		path string
		want types.DirectoryEntryType
	}{
		{"root", "/", types.DirectoryEntryTypeDirectory},
		{"nested directory", "/a", types.DirectoryEntryTypeDirectory},
		{"deep directory", "/a/b", types.DirectoryEntryTypeDirectory},
		{"deep file", "/a/b/c.bin", types.DirectoryEntryTypeFile},
		{"root file", "/top.txt", types.DirectoryEntryTypeFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.EntryType(tt.path)
			if err != nil {
				t.Fatalf("EntryType(%q) failed: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("EntryType(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileTableLookupErrors(t *testing.T) {
	image := buildNestedImage()

	table, err := NewFileTableReader(device.NewMemoryStorage(image), nil)
	if err != nil {
		t.Fatalf("NewFileTableReader failed: %v", err)
	}

	if _, err := table.OpenFile("relative/path"); !fserrors.IsInvalidPathFormat(err) {
		t.Errorf("Expected ErrInvalidPathFormat, got %v", err)
	}
	if _, err := table.OpenFile("/a/b/missing"); !fserrors.IsPathNotFound(err) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}
	if _, err := table.OpenFile("/missing/c.bin"); !fserrors.IsPathNotFound(err) {
		t.Errorf("Expected ErrPathNotFound for missing intermediate, got %v", err)
	}
	if _, err := table.OpenFile("/a"); !fserrors.IsPathNotFound(err) {
		t.Errorf("Expected ErrPathNotFound opening a directory as file, got %v", err)
	}
	if _, err := table.OpenDirectory("/top.txt"); !fserrors.IsPathNotFound(err) {
		t.Errorf("Expected ErrPathNotFound opening a file as directory, got %v", err)
	}
	if _, err := table.EntryType("/a/b/missing"); !fserrors.IsPathNotFound(err) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}
}

func TestFileTableDirectoryLinks(t *testing.T) {
	b := NewImageBuilder()
	docs := b.AddDirectory(0, "docs")
	b.AddDirectory(0, "bin")
	b.AddFile(docs, "readme.md", []byte("# hi"))
	b.AddFile(docs, "guide.md", []byte("## guide"))
	image := b.Build()

	table, err := NewFileTableReader(device.NewMemoryStorage(image), nil)
	if err != nil {
		t.Fatalf("NewFileTableReader failed: %v", err)
	}

	root, err := table.DirectoryEntryAt(RootDirectoryOffset)
	if err != nil {
		t.Fatalf("DirectoryEntryAt(root) failed: %v", err)
	}
	if root.Name != "" {
		t.Errorf("Expected empty root name, got %q", root.Name)
	}

	first, err := table.DirectoryEntryAt(root.FirstChild)
	if err != nil {
		t.Fatalf("DirectoryEntryAt(first child) failed: %v", err)
	}
	if first.Name != "docs" {
		t.Errorf("Expected first child %q, got %q", "docs", first.Name)
	}

	second, err := table.DirectoryEntryAt(first.NextSibling)
	if err != nil {
		t.Fatalf("DirectoryEntryAt(second child) failed: %v", err)
	}
	if second.Name != "bin" {
		t.Errorf("Expected second child %q, got %q", "bin", second.Name)
	}
	if second.NextSibling != types.RomInvalidEntry {
		t.Errorf("Expected end of sibling chain, got %d", second.NextSibling)
	}

	file, err := table.FileEntryAt(first.FirstFile)
	if err != nil {
		t.Fatalf("FileEntryAt failed: %v", err)
	}
	if file.Name != "readme.md" {
		t.Errorf("Expected first file %q, got %q", "readme.md", file.Name)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	image := buildNestedImage()

	badHeaderSize := append([]byte{}, image...)
	binary.LittleEndian.PutUint64(badHeaderSize[0:8], 64)

	badRegion := append([]byte{}, image...)
	binary.LittleEndian.PutUint64(badRegion[24:32], uint64(len(image))+100)

	tests := []struct {
		name  string
		image []byte
	}{
		{"wrong header size", badHeaderSize},
		{"table region past storage", badRegion},
		{"truncated", image[:40]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHeader(device.NewMemoryStorage(tt.image)); err == nil {
				t.Fatal("Expected error but got none")
			}
		})
	}
}

func TestNewFileTableReaderWorkBufferTooSmall(t *testing.T) {
	image := buildNestedImage()
	storage := device.NewMemoryStorage(image)

	needed, err := RequiredWorkingMemorySize(storage)
	if err != nil {
		t.Fatalf("RequiredWorkingMemorySize failed: %v", err)
	}

	if _, err := NewFileTableReader(storage, make([]byte, needed-1)); !fserrors.IsInvalidSize(err) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}

	if _, err := NewFileTableReader(storage, make([]byte, needed)); err != nil {
		t.Errorf("Exact-size work buffer failed: %v", err)
	}
}
