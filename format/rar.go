package format

import (
	"fmt"
	"io"

	"github.com/hvnguyen/archr"
	"github.com/nwaples/rardecode/v2"
)

// Rar implements archr.Factory for RAR files, with optional password.
//
// RAR is consumed strictly front to back: the factory scans the volume once
// to enumerate entries, and every entry-stream open rescans from the front to
// the wanted entry. The caching cursor on archr.Entry is what keeps repeated
// range reads over such a container affordable.
type Rar struct{}

var _ archr.Factory = Rar{}

func (r Rar) Ext() string {
	return ".rar"
}

func (r Rar) Open(name string, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	opts := archr.ApplyOptions(optFns...)

	var ropts []rardecode.Option
	if opts.Password != "" {
		ropts = append(ropts, rardecode.Password(opts.Password))
	}

	rr, err := rardecode.OpenReader(name, ropts...)
	if err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	c := &rarContainer{name: name, ropts: ropts}
	for {
		fh, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = rr.Close()
			return nil, &archr.OpenError{Name: name, Err: err}
		}

		if fh.IsDir {
			continue
		}

		c.entries = append(c.entries, &rarEntry{
			c:           c,
			path:        fh.Name,
			size:        fh.UnPackedSize,
			sizeUnknown: fh.UnKnownSize,
		})
	}

	if err = rr.Close(); err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	return archr.New(c, optFns...), nil
}

type rarContainer struct {
	name    string
	ropts   []rardecode.Option
	entries []archr.ContainerEntry
}

var _ archr.Container = &rarContainer{}

func (c *rarContainer) Entries() []archr.ContainerEntry {
	return c.entries
}

func (c *rarContainer) ConcurrentOpens() bool {
	return false
}

func (c *rarContainer) Close() error {
	// the scan reader was closed at open time and entry streams are owned by
	// their cursors; nothing is held at the container level.
	return nil
}

type rarEntry struct {
	c           *rarContainer
	path        string
	size        int64
	sizeUnknown bool
}

func (e *rarEntry) Path() string {
	return e.path
}

func (e *rarEntry) Length() (int64, bool) {
	return e.size, !e.sizeUnknown
}

func (e *rarEntry) CompressedLength() (int64, bool) {
	return 0, false
}

func (e *rarEntry) Open() (io.ReadCloser, error) {
	rr, err := rardecode.OpenReader(e.c.name, e.c.ropts...)
	if err != nil {
		return nil, err
	}

	for {
		fh, err := rr.Next()
		if err == io.EOF {
			err = fmt.Errorf(`entry "%s" no longer present in rar volume`, e.path)
		}
		if err != nil {
			_ = rr.Close()
			return nil, err
		}

		if fh.Name == e.path {
			// rr reads the current entry until io.EOF.
			return rr, nil
		}
	}
}
