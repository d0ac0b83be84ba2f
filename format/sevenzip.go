package format

import (
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/hvnguyen/archr"
)

// SevenZip implements archr.Factory for 7z files, with optional password.
//
// 7z archives are typically solid: entries share one compressed stream, and
// the library does not document concurrent entry access, so stream opens are
// serialized at the Archive level.
type SevenZip struct{}

var _ archr.Factory = SevenZip{}

func (s SevenZip) Ext() string {
	return ".7z"
}

func (s SevenZip) Open(name string, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	opts := archr.ApplyOptions(optFns...)

	zr, err := sevenzip.OpenReaderWithPassword(name, opts.Password)
	if err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	return archr.New(newSevenZipContainer(&zr.Reader, zr.Close), optFns...), nil
}

// OpenSevenZipReaderAt opens a 7z container from any io.ReaderAt, such as an
// s3source.Reader over a remote object.
func OpenSevenZipReaderAt(src io.ReaderAt, size int64, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	opts := archr.ApplyOptions(optFns...)

	zr, err := sevenzip.NewReaderWithPassword(src, size, opts.Password)
	if err != nil {
		return nil, &archr.OpenError{Name: "(ReaderAt)", Err: err}
	}

	return archr.New(newSevenZipContainer(zr, func() error { return nil }), optFns...), nil
}

func newSevenZipContainer(zr *sevenzip.Reader, closer func() error) *sevenZipContainer {
	c := &sevenZipContainer{closer: closer}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}

		c.entries = append(c.entries, &sevenZipEntry{zf})
	}

	return c
}

type sevenZipContainer struct {
	entries []archr.ContainerEntry
	closer  func() error
}

var _ archr.Container = &sevenZipContainer{}

func (c *sevenZipContainer) Entries() []archr.ContainerEntry {
	return c.entries
}

func (c *sevenZipContainer) ConcurrentOpens() bool {
	return false
}

func (c *sevenZipContainer) Close() error {
	return c.closer()
}

type sevenZipEntry struct {
	zf *sevenzip.File
}

func (e *sevenZipEntry) Path() string {
	return e.zf.Name
}

func (e *sevenZipEntry) Length() (int64, bool) {
	return int64(e.zf.UncompressedSize), true
}

func (e *sevenZipEntry) CompressedLength() (int64, bool) {
	// solid compression shares one stream across entries; there is no
	// meaningful per-entry stored size.
	return 0, false
}

func (e *sevenZipEntry) Open() (io.ReadCloser, error) {
	return e.zf.Open()
}
