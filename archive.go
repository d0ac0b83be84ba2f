package archr

import (
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Archive is a handle to an opened container.
//
// Archive adds to the raw Container the lifecycle and bookkeeping that the
// format bindings stay out of: closed-state tracking, one cached Entry handle
// per path, and serialization of stream opens for containers that cannot
// tolerate concurrent ones.
//
// All methods are safe for concurrent use.
type Archive struct {
	container Container
	openHook  func(string)

	// openMu serializes stream opens when the container does not support
	// concurrent ones; nil otherwise.
	openMu *sync.Mutex

	mu      sync.Mutex
	closed  bool
	order   []string
	sources map[string]ContainerEntry
	entries map[string]*Entry
}

// New wraps a Container produced by a format binding into an Archive.
//
// Factories call New at the end of their Open; callers only need it when
// plugging in a custom Container implementation.
func New(c Container, optFns ...func(*Options)) *Archive {
	opts := ApplyOptions(optFns...)

	a := &Archive{
		container: c,
		openHook:  opts.OpenHook,
		sources:   make(map[string]ContainerEntry),
		entries:   make(map[string]*Entry),
	}
	if !c.ConcurrentOpens() {
		a.openMu = &sync.Mutex{}
	}

	for _, ce := range c.Entries() {
		// keep the first occurrence should the container hold duplicates.
		if _, ok := a.sources[ce.Path()]; !ok {
			a.order = append(a.order, ce.Path())
			a.sources[ce.Path()] = ce
		}
	}

	return a
}

// Entries returns handles to all non-directory entries in archive-native
// order.
//
// The same *Entry is returned for a path on every call, so a cursor built up
// by one caller benefits the next.
func (a *Archive) Entries() ([]*Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf("list entries: %w", ErrClosed)
	}

	entries := make([]*Entry, 0, len(a.order))
	for _, path := range a.order {
		entries = append(entries, a.entryLocked(path))
	}

	return entries, nil
}

// Entry returns the handle for the entry with the given path.
//
// Matching is exact-string on the container's native path encoding; callers
// are responsible for normalization.
func (a *Archive) Entry(path string) (*Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf(`entry "%s": %w`, path, ErrClosed)
	}

	if _, ok := a.sources[path]; !ok {
		return nil, fmt.Errorf(`entry "%s": %w`, path, ErrEntryNotFound)
	}

	return a.entryLocked(path), nil
}

func (a *Archive) entryLocked(path string) *Entry {
	e, ok := a.entries[path]
	if !ok {
		e = &Entry{arch: a, src: a.sources[path]}
		a.entries[path] = e
	}

	return e
}

// Close releases the container handle and every cursor of every entry that
// was handed out.
//
// Close is idempotent and safe to call from any thread; closing twice is a
// no-op. After Close, all further operations on the Archive and its Entries
// fail with ErrClosed.
func (a *Archive) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true

	entries := make([]*Entry, 0, len(a.entries))
	for _, e := range a.entries {
		entries = append(entries, e)
	}
	a.mu.Unlock()

	var err error
	for _, e := range entries {
		if cerr := e.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}
	if cerr := a.container.Close(); cerr != nil {
		err = multierror.Append(err, cerr)
	}

	return err
}

// openStream opens a fresh decode stream for src, holding the archive-level
// open lock if the container requires serialized opens.
//
// Callers hold their own entry lock; openMu is never held while an entry lock
// is being acquired, so the two cannot deadlock.
func (a *Archive) openStream(src ContainerEntry) (io.ReadCloser, error) {
	if a.openMu != nil {
		a.openMu.Lock()
		defer a.openMu.Unlock()
	}

	rc, err := src.Open()
	if err == nil && a.openHook != nil {
		a.openHook(src.Path())
	}

	return rc, err
}
