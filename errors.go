package archr

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned by Archive.Entry when the path does not
	// match any entry in the container's namespace.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrClosed is returned by any operation issued against an Archive or
	// Entry after it has been closed.
	ErrClosed = errors.New("archive is closed")

	// ErrPassword is returned when a container requires a password that was
	// not given, was wrong, or is not supported by the format binding.
	ErrPassword = errors.New("missing, wrong, or unsupported password")

	// ErrInvalidRange is returned by Entry.Read when the requested range has
	// a negative start or end before start.
	ErrInvalidRange = errors.New("invalid range")
)

// OpenError is returned by a Factory when the container file cannot be opened
// or parsed.
type OpenError struct {
	// Name is the container file name as given to the Factory.
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf(`open archive "%s" error: %v`, e.Name, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ReadError is returned by Entry.Read when the underlying stream fails while
// servicing a range read.
//
// The entry's cursor has already been torn down by the time the error
// surfaces, so a retry starts from a clean state.
type ReadError struct {
	// Path is the path of the entry being read.
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf(`read entry "%s" error: %v`, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
