package archr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Entry is a handle to one logical resource inside an Archive.
//
// An Entry owns at most one live cursor: the decode stream of the most recent
// range read plus the count of decompressed bytes drained from it. A read
// whose start offset is at or past that count fast-forwards the live stream;
// anything else (a rewind) closes it and decodes from the front again. For
// forward or sequential access patterns this turns quadratic re-decoding into
// a single pass.
//
// Read and Close are mutually exclusive per entry; different Entries of the
// same Archive may be used concurrently.
type Entry struct {
	arch *Archive
	src  ContainerEntry

	mu       sync.Mutex
	closed   bool
	cursor   io.ReadCloser
	consumed int64
}

// Path returns the entry's full path in the container's namespace.
func (e *Entry) Path() string {
	return e.src.Path()
}

// Length returns the decompressed size, or ok=false when the container does
// not declare one.
func (e *Entry) Length() (int64, bool) {
	return e.src.Length()
}

// CompressedLength returns the stored size, or ok=false when the entry is
// stored uncompressed or the format does not expose it.
func (e *Entry) CompressedLength() (int64, bool) {
	return e.src.CompressedLength()
}

// Read returns the bytes of the half-open range r of the entry's decompressed
// content, or the entire content when r is nil.
//
// A range extending past the actual content returns the bytes that were
// available rather than an error; declared lengths in real-world archives are
// occasionally wrong and the caller is better served by truncated data.
//
// Read blocks on file I/O and decoding; run it off any latency-sensitive
// thread. Cancellation via ctx is honoured between decode chunks.
func (e *Entry) Read(ctx context.Context, r *Range) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf(`entry "%s": %w`, e.src.Path(), ErrClosed)
	}

	if r == nil {
		return e.readAll(ctx)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	return e.readRange(ctx, r.Start, r.End)
}

// readAll drains a fresh stream from offset 0.
//
// A full read exhausts the stream anyway, so nothing is retained: the live
// cursor, if any, is left untouched for subsequent range reads.
func (e *Entry) readAll(ctx context.Context) ([]byte, error) {
	rc, err := e.arch.openStream(e.src)
	if err != nil {
		return nil, e.fail(err)
	}

	data, err := readAllWithContext(ctx, rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, e.fail(err)
	}

	return data, nil
}

func (e *Entry) readRange(ctx context.Context, start, end int64) ([]byte, error) {
	// the cursor serves this read only if it has not yet advanced past
	// start; otherwise it is replaced by a stream decoding from the front.
	if e.cursor == nil || e.consumed > start {
		e.teardown()

		rc, err := e.arch.openStream(e.src)
		if err != nil {
			return nil, e.fail(err)
		}
		e.cursor = rc
	}

	// fast-forward to start.
	n, err := discardWithContext(ctx, e.cursor, start-e.consumed)
	e.consumed += n
	if err == io.EOF {
		// entry ends before start; truncated read.
		return []byte{}, nil
	}
	if err != nil {
		return nil, e.fail(err)
	}

	buf, err := readUpToWithContext(ctx, e.cursor, end-start)
	e.consumed += int64(len(buf))
	if err != nil && err != io.EOF {
		return nil, e.fail(err)
	}

	return buf, nil
}

// fail maps an underlying failure to the error Read surfaces.
//
// Cancellation leaves the cursor alive: consumed reflects exactly what was
// drained, so the entry remains usable once the caller retries. Any other
// failure tears the cursor down so a retry starts clean instead of reusing
// possibly corrupt decoder state.
func (e *Entry) fail(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	e.teardown()
	return &ReadError{Path: e.src.Path(), Err: err}
}

func (e *Entry) teardown() {
	if e.cursor != nil {
		_ = e.cursor.Close()
		e.cursor = nil
		e.consumed = 0
	}
}

// Close releases the entry's cursor, if any. Close is idempotent.
//
// The entry is also closed implicitly when its Archive is closed.
func (e *Entry) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var err error
	if e.cursor != nil {
		err = e.cursor.Close()
		e.cursor = nil
		e.consumed = 0
	}

	return err
}
