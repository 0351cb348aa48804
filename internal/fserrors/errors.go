// Package fserrors defines the error kinds surfaced by the archive
// filesystems. Failures that the filesystems and their parsers detect carry
// one of these sentinels (possibly wrapped with context), so callers classify
// them with errors.Is or the Is* helpers. Errors from the backing Storage are
// passed up wrapped but otherwise unchanged, and a nil storage handed to a
// metadata reader yields an error with no sentinel.
package fserrors

import "errors"

var (
	// ErrPreconditionViolation indicates use before Initialize, or a second
	// Initialize on an already-bound instance.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrInvalidPathFormat indicates a path that does not begin with '/'.
	ErrInvalidPathFormat = errors.New("invalid path format")

	// ErrPathNotFound indicates path resolution failed.
	ErrPathNotFound = errors.New("path not found")

	// ErrOutOfRange indicates an offset past the end of a file, a negative
	// offset, or arithmetic overflow while range checking.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidSize indicates a length that would exceed the entry size or
	// wrap around.
	ErrInvalidSize = errors.New("invalid size")

	// ErrUnsupportedOperationInPartitionFileSystemA is returned by every
	// mutating filesystem operation on a read-only archive.
	ErrUnsupportedOperationInPartitionFileSystemA = errors.New("unsupported operation in partition file system (mutation)")

	// ErrUnsupportedOperationInPartitionFileSystemB is returned by
	// unsupported commit/query variants.
	ErrUnsupportedOperationInPartitionFileSystemB = errors.New("unsupported operation in partition file system (commit variant)")

	// ErrUnsupportedOperationInPartitionFileA is returned by file-level
	// mutating operations.
	ErrUnsupportedOperationInPartitionFileA = errors.New("unsupported operation in partition file (mutation)")

	// ErrUnsupportedOperationInPartitionFileB is returned by unsupported
	// operate-range variants or operate-range without the required mode.
	ErrUnsupportedOperationInPartitionFileB = errors.New("unsupported operation in partition file (operate range)")

	// ErrInvalidPartitionFileSystem indicates corrupt or inconsistent
	// partition metadata.
	ErrInvalidPartitionFileSystem = errors.New("invalid partition file system")

	// ErrInvalidRomFileSystem indicates a corrupt or inconsistent ROM image.
	ErrInvalidRomFileSystem = errors.New("invalid rom file system")

	// ErrInvalidSha256PartitionHashTarget indicates the hashed-entry
	// preconditions were violated: nonzero hash target offset, a hash region
	// past the entry end, or a read that straddles the hash region boundary.
	ErrInvalidSha256PartitionHashTarget = errors.New("invalid sha256 partition hash target")

	// ErrSha256PartitionHashVerificationFailed indicates a digest mismatch at
	// read time. The destination buffer is zeroed before this is returned.
	ErrSha256PartitionHashVerificationFailed = errors.New("sha256 partition hash verification failed")

	// ErrReadNotPermitted indicates a Read, or an operate-range read request,
	// on a handle opened without read permission.
	ErrReadNotPermitted = errors.New("read not permitted")

	// ErrAllocationFailureA indicates allocation failure while constructing
	// filesystem metadata.
	ErrAllocationFailureA = errors.New("allocation failure (metadata)")

	// ErrAllocationFailureB indicates allocation failure while constructing a
	// file handle.
	ErrAllocationFailureB = errors.New("allocation failure (file handle)")

	// ErrAllocationFailureC indicates allocation failure while constructing a
	// directory handle.
	ErrAllocationFailureC = errors.New("allocation failure (directory handle)")
)

// IsPreconditionViolation reports whether err is ErrPreconditionViolation.
func IsPreconditionViolation(err error) bool {
	return errors.Is(err, ErrPreconditionViolation)
}

// IsInvalidPathFormat reports whether err is ErrInvalidPathFormat.
func IsInvalidPathFormat(err error) bool {
	return errors.Is(err, ErrInvalidPathFormat)
}

// IsPathNotFound reports whether err is ErrPathNotFound.
func IsPathNotFound(err error) bool {
	return errors.Is(err, ErrPathNotFound)
}

// IsOutOfRange reports whether err is ErrOutOfRange.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsInvalidSize reports whether err is ErrInvalidSize.
func IsInvalidSize(err error) bool {
	return errors.Is(err, ErrInvalidSize)
}

// IsInvalidPartitionFileSystem reports whether err is
// ErrInvalidPartitionFileSystem.
func IsInvalidPartitionFileSystem(err error) bool {
	return errors.Is(err, ErrInvalidPartitionFileSystem)
}

// IsHashVerificationFailed reports whether err is
// ErrSha256PartitionHashVerificationFailed.
func IsHashVerificationFailed(err error) bool {
	return errors.Is(err, ErrSha256PartitionHashVerificationFailed)
}
