package format

import (
	"archive/zip"
	"io"

	"github.com/hvnguyen/archr"
	"github.com/klauspost/compress/flate"
)

// Zip implements archr.Factory for ZIP files.
//
// Deflated entries are decoded with klauspost's flate. The zip central
// directory is ReaderAt-based, so streams for different entries may be opened
// and read concurrently.
//
// Passwords are rejected with archr.ErrPassword: the standard zip reader has
// no encryption support, and failing the open beats returning ciphertext.
type Zip struct{}

var _ archr.Factory = Zip{}

func (z Zip) Ext() string {
	return ".zip"
}

func (z Zip) Open(name string, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	if archr.ApplyOptions(optFns...).Password != "" {
		return nil, &archr.OpenError{Name: name, Err: archr.ErrPassword}
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	return archr.New(newZipContainer(&zr.Reader, zr.Close), optFns...), nil
}

// OpenZipReaderAt opens a ZIP container from any io.ReaderAt, such as a local
// file or an s3source.Reader over a remote object.
func OpenZipReaderAt(src io.ReaderAt, size int64, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	if archr.ApplyOptions(optFns...).Password != "" {
		return nil, &archr.OpenError{Name: "(ReaderAt)", Err: archr.ErrPassword}
	}

	zr, err := zip.NewReader(src, size)
	if err != nil {
		return nil, &archr.OpenError{Name: "(ReaderAt)", Err: err}
	}

	return archr.New(newZipContainer(zr, func() error { return nil }), optFns...), nil
}

func newZipContainer(zr *zip.Reader, closer func() error) *zipContainer {
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	c := &zipContainer{closer: closer}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}

		c.entries = append(c.entries, &zipEntry{zf})
	}

	return c
}

type zipContainer struct {
	entries []archr.ContainerEntry
	closer  func() error
}

var _ archr.Container = &zipContainer{}

func (c *zipContainer) Entries() []archr.ContainerEntry {
	return c.entries
}

func (c *zipContainer) ConcurrentOpens() bool {
	return true
}

func (c *zipContainer) Close() error {
	return c.closer()
}

type zipEntry struct {
	zf *zip.File
}

func (e *zipEntry) Path() string {
	return e.zf.Name
}

func (e *zipEntry) Length() (int64, bool) {
	return int64(e.zf.UncompressedSize64), true
}

func (e *zipEntry) CompressedLength() (int64, bool) {
	// a stored entry is not actually compressed.
	if e.zf.Method == zip.Store {
		return 0, false
	}

	return int64(e.zf.CompressedSize64), true
}

func (e *zipEntry) Open() (io.ReadCloser, error) {
	return e.zf.Open()
}
