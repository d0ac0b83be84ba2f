package archr

import (
	"context"
	"io"
)

const readChunkSize = 32 * 1024

// discardWithContext reads and throws away exactly n bytes from src, checking
// the context between chunks.
//
// Returns the number of bytes actually discarded, which is less than n only
// when src was exhausted (err == io.EOF) or reading failed.
func discardWithContext(ctx context.Context, src io.Reader, n int64) (int64, error) {
	var discarded int64
	buf := make([]byte, readChunkSize)

	for discarded < n {
		if err := ctx.Err(); err != nil {
			return discarded, err
		}

		chunk := n - discarded
		if chunk > readChunkSize {
			chunk = readChunkSize
		}

		m, err := io.ReadFull(src, buf[:chunk])
		discarded += int64(m)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil {
			return discarded, err
		}
	}

	return discarded, nil
}

// readUpToWithContext reads at most n bytes from src, checking the context
// between chunks.
//
// The buffer grows one chunk at a time, so a request reaching far past the
// end of src only ever allocates for the bytes that actually exist. A short
// result caused by stream exhaustion is reported as io.EOF together with the
// bytes that were available.
func readUpToWithContext(ctx context.Context, src io.Reader, n int64) ([]byte, error) {
	buf := make([]byte, 0, min(n, readChunkSize))

	for int64(len(buf)) < n {
		if err := ctx.Err(); err != nil {
			return buf, err
		}

		chunk := n - int64(len(buf))
		if chunk > readChunkSize {
			chunk = readChunkSize
		}

		off := len(buf)
		buf = append(buf, make([]byte, chunk)...)

		m, err := io.ReadFull(src, buf[off:])
		buf = buf[:off+m]
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil {
			return buf, err
		}
	}

	return buf, nil
}

// readAllWithContext drains src to completion, checking the context between
// chunks.
func readAllWithContext(ctx context.Context, src io.Reader) ([]byte, error) {
	var data []byte
	buf := make([]byte, readChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return data, err
		}

		m, err := src.Read(buf)
		data = append(data, buf[:m]...)
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return data, err
		}
	}
}
