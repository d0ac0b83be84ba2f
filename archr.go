// Package archr provides random-access, byte-range reads over the entries of
// compressed containers (zip, 7z, rar, tar and friends) whose decode streams
// are forward-only.
//
// A deflate decoder cannot jump to an arbitrary offset; reading bytes at
// offset N requires decoding and discarding N bytes first. Doing that for
// every request turns paginated consumption into quadratic work. The Entry
// type keeps a live decode cursor around so that non-decreasing range reads
// on the same entry reuse one stream instead of restarting from the front.
package archr

import "io"

// Container is the contract a concrete format binding implements.
//
// Implementations enumerate the non-directory entries of one opened container
// file and open fresh forward-only decode streams for them. They do not need
// to be safe for concurrent use; see ConcurrentOpens.
type Container interface {
	// Entries returns all non-directory entries in archive-native order.
	//
	// The returned slice is a snapshot taken when the container was opened
	// and must stay valid until Close.
	Entries() []ContainerEntry

	// ConcurrentOpens reports whether streams for different entries may be
	// opened and read concurrently.
	//
	// Bindings whose underlying library does not document concurrent entry
	// access must return false, in which case Archive serializes all stream
	// opens through a single lock.
	ConcurrentOpens() bool

	// Close releases the underlying container handle.
	Close() error
}

// ContainerEntry is one named resource inside a Container.
type ContainerEntry interface {
	// Path returns the entry's full path in the container's namespace.
	Path() string

	// Length returns the decompressed size, or ok=false when unknown.
	Length() (n int64, ok bool)

	// CompressedLength returns the stored size, or ok=false when the entry
	// is stored uncompressed or the container format does not expose it.
	CompressedLength() (n int64, ok bool)

	// Open starts a new decode stream at the beginning of the entry.
	Open() (io.ReadCloser, error)
}

// Factory opens a container file and produces an Archive.
//
// One Factory exists per supported container format; callers either pick one
// directly, try several in sequence, or let format.Detect sniff the content.
type Factory interface {
	// Open opens the named container file.
	//
	// Failures to parse the container (unsupported format, wrong password,
	// corrupt header, I/O error) are reported as *OpenError.
	Open(name string, optFns ...func(*Options)) (*Archive, error)

	// Ext returns the canonical file name extension of the format,
	// including the leading dot.
	Ext() string
}
