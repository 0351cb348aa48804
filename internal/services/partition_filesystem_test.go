package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-nxfs/internal/device"
	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

func newFlatFS(t *testing.T, entries []archiveEntry) *PartitionFileSystem {
	t.Helper()
	fs := NewPartitionFileSystem()
	err := fs.Initialize(device.NewMemoryStorage(buildPartitionImage(false, entries)))
	require.NoError(t, err, "failed to initialize partition filesystem")
	return fs
}

func TestPartitionFileSystemEmptyArchive(t *testing.T) {
	fs := newFlatFS(t, nil)

	dir, err := fs.OpenDirectory("/", types.OpenDirectoryModeAll)
	require.NoError(t, err, "root of an empty archive should open")

	entries, err := drainDirectory(dir, 4)
	require.NoError(t, err)
	assert.Empty(t, entries, "empty archive should enumerate nothing")

	_, err = fs.GetEntryType("/foo")
	assert.True(t, fserrors.IsPathNotFound(err), "expected path-not-found, got %v", err)
}

func TestPartitionFileSystemSingleFile(t *testing.T) {
	fs := newFlatFS(t, []archiveEntry{{name: "HELLO", content: []byte("world")}})

	file, err := fs.OpenFile("/HELLO", types.OpenModeRead)
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err := file.Read(0, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("world"), buf)

	n, err = file.Read(5, buf)
	require.NoError(t, err, "read at end of file should succeed")
	assert.Zero(t, n, "read at end of file should produce no bytes")

	_, err = file.Read(6, buf[:1])
	assert.True(t, fserrors.IsOutOfRange(err), "expected out-of-range, got %v", err)

	size, err := file.GetSize()
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}

func TestPartitionFileSystemEntryTypes(t *testing.T) {
	fs := newFlatFS(t, []archiveEntry{
		{name: "first.bin", content: []byte{1, 2, 3}},
		{name: "second.bin", content: []byte{4, 5}},
	})

	entryType, err := fs.GetEntryType("/")
	require.NoError(t, err)
	assert.Equal(t, types.DirectoryEntryTypeDirectory, entryType)

	dir, err := fs.OpenDirectory("/", types.OpenDirectoryModeAll)
	require.NoError(t, err)
	entries, err := drainDirectory(dir, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		entryType, err := fs.GetEntryType("/" + e.EntryName())
		require.NoError(t, err, "enumerated name should resolve")
		assert.Equal(t, types.DirectoryEntryTypeFile, entryType)
	}

	_, err = fs.GetEntryType("no-slash")
	assert.True(t, fserrors.IsInvalidPathFormat(err), "expected invalid-path-format, got %v", err)
}

func TestPartitionFileSystemDirectoryCursor(t *testing.T) {
	fs := newFlatFS(t, []archiveEntry{
		{name: "a", content: []byte{1}},
		{name: "b", content: []byte{2, 2}},
		{name: "c", content: []byte{3, 3, 3}},
	})

	dir, err := fs.OpenDirectory("/", types.OpenDirectoryModeAll)
	require.NoError(t, err)

	count, err := dir.GetEntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	entries, err := drainDirectory(dir, 2)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].EntryName())
	assert.Equal(t, "b", entries[1].EntryName())
	assert.Equal(t, "c", entries[2].EntryName())
	assert.Equal(t, int64(2), entries[1].Size)
	assert.Equal(t, types.DirectoryEntryTypeFile, entries[0].Type)

	// The cursor is spent; a second pass yields nothing.
	again, err := drainDirectory(dir, 2)
	require.NoError(t, err)
	assert.Empty(t, again, "second enumeration pass should be empty")

	// A directory-only handle sees no entries in a flat archive.
	dirOnly, err := fs.OpenDirectory("/", types.OpenDirectoryModeDirectory)
	require.NoError(t, err)
	count, err = dirOnly.GetEntryCount()
	require.NoError(t, err)
	assert.Zero(t, count)
	entries, err = drainDirectory(dirOnly, 2)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPartitionFileSystemBaseOffset(t *testing.T) {
	image := buildPartitionImage(false, []archiveEntry{
		{name: "x.bin", content: []byte("0123456789")},
		{name: "y.bin", content: []byte("abcdef")},
	})
	storage := device.NewMemoryStorage(image)
	fs := NewPartitionFileSystem()
	require.NoError(t, fs.Initialize(storage))

	offset, err := fs.GetFileBaseOffset("/y.bin")
	require.NoError(t, err)

	raw := make([]byte, 6)
	require.NoError(t, storage.Read(offset, raw))

	file, err := fs.OpenFile("/y.bin", types.OpenModeRead)
	require.NoError(t, err)
	viaFile := make([]byte, 6)
	n, err := file.Read(0, viaFile)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	assert.Equal(t, viaFile, raw, "raw storage read at base offset should match file read")

	_, err = fs.GetFileBaseOffset("/missing")
	assert.True(t, fserrors.IsPathNotFound(err))
}

func TestPartitionFileSystemRejectsMutations(t *testing.T) {
	fs := newFlatFS(t, []archiveEntry{{name: "a", content: []byte{1}}})

	assertUnsupportedMutation := func(err error) {
		t.Helper()
		assert.ErrorIs(t, err, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
	}

	assertUnsupportedMutation(fs.CreateFile("/new", 16))
	assertUnsupportedMutation(fs.DeleteFile("/a"))
	assertUnsupportedMutation(fs.CreateDirectory("/d"))
	assertUnsupportedMutation(fs.DeleteDirectory("/d"))
	assertUnsupportedMutation(fs.DeleteDirectoryRecursively("/d"))
	assertUnsupportedMutation(fs.CleanDirectoryRecursively("/"))
	assertUnsupportedMutation(fs.RenameFile("/a", "/b"))
	assertUnsupportedMutation(fs.RenameDirectory("/d", "/e"))
	// Path validity must not matter.
	assertUnsupportedMutation(fs.DeleteFile("not-even-a-path"))

	assert.NoError(t, fs.Commit())
	assert.ErrorIs(t, fs.CommitProvisionally(7), fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

func TestPartitionFileSystemInitializeTwice(t *testing.T) {
	image := buildPartitionImage(false, nil)
	fs := NewPartitionFileSystem()
	require.NoError(t, fs.Initialize(device.NewMemoryStorage(image)))

	err := fs.Initialize(device.NewMemoryStorage(image))
	assert.True(t, fserrors.IsPreconditionViolation(err), "expected precondition violation, got %v", err)
}

func TestPartitionFileSystemUseBeforeInitialize(t *testing.T) {
	fs := NewPartitionFileSystem()

	_, err := fs.GetEntryType("/")
	assert.True(t, fserrors.IsPreconditionViolation(err))
	_, err = fs.OpenFile("/a", types.OpenModeRead)
	assert.True(t, fserrors.IsPreconditionViolation(err))
	_, err = fs.OpenDirectory("/", types.OpenDirectoryModeAll)
	assert.True(t, fserrors.IsPreconditionViolation(err))
	_, err = fs.GetFileBaseOffset("/a")
	assert.True(t, fserrors.IsPreconditionViolation(err))
}

func TestPartitionFileMutatingOps(t *testing.T) {
	fs := newFlatFS(t, []archiveEntry{{name: "a", content: []byte("abcdef")}})

	file, err := fs.OpenFile("/a", types.OpenModeReadWrite)
	require.NoError(t, err)

	assert.ErrorIs(t, file.Write(0, []byte{1}), fserrors.ErrUnsupportedOperationInPartitionFileA)
	assert.ErrorIs(t, file.SetSize(2), fserrors.ErrUnsupportedOperationInPartitionFileA)
	assert.NoError(t, file.Flush())

	// Out-of-bounds writes fail the range check first.
	assert.True(t, fserrors.IsOutOfRange(file.Write(100, []byte{1})))
	assert.True(t, fserrors.IsInvalidSize(file.Write(4, []byte{1, 2, 3, 4})))
}

func TestPartitionFileOperateRange(t *testing.T) {
	fs := newFlatFS(t, []archiveEntry{{name: "a", content: []byte("abcdef")}})

	readOnly, err := fs.OpenFile("/a", types.OpenModeRead)
	require.NoError(t, err)

	info, err := readOnly.OperateRange(types.OperationIDInvalidate, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), info.Size)

	_, err = readOnly.OperateRange(types.OperationIDQueryRange, 2, 3)
	assert.NoError(t, err)

	_, err = readOnly.OperateRange(types.OperationID(99), 0, 1)
	assert.ErrorIs(t, err, fserrors.ErrUnsupportedOperationInPartitionFileB)

	_, err = readOnly.OperateRange(types.OperationIDQueryRange, -1, 1)
	assert.True(t, fserrors.IsOutOfRange(err))
	_, err = readOnly.OperateRange(types.OperationIDQueryRange, 0, 7)
	assert.True(t, fserrors.IsInvalidSize(err))

	writable, err := fs.OpenFile("/a", types.OpenModeReadWrite)
	require.NoError(t, err)
	_, err = writable.OperateRange(types.OperationIDInvalidate, 0, 6)
	assert.ErrorIs(t, err, fserrors.ErrUnsupportedOperationInPartitionFileB)

	writeOnly, err := fs.OpenFile("/a", types.OpenModeWrite)
	require.NoError(t, err)
	_, err = writeOnly.OperateRange(types.OperationIDInvalidate, 0, 6)
	assert.ErrorIs(t, err, fserrors.ErrReadNotPermitted)

	_, err = writeOnly.Read(0, make([]byte, 1))
	assert.ErrorIs(t, err, fserrors.ErrReadNotPermitted)
}

func TestPartitionFileSystemSpaceQueries(t *testing.T) {
	fs := newFlatFS(t, nil)

	_, err := fs.GetFreeSpaceSize("/")
	assert.ErrorIs(t, err, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
	_, err = fs.GetTotalSpaceSize("/")
	assert.ErrorIs(t, err, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

func TestPartitionFileSystemMountID(t *testing.T) {
	fs := newFlatFS(t, nil)
	other := newFlatFS(t, nil)

	assert.NotEqual(t, fs.MountID(), other.MountID(), "each mount should get its own identity")
	assert.NotNil(t, fs.GetBaseStorage())
}
