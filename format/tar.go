package format

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/hvnguyen/archr"
	"github.com/hvnguyen/archr/codec"
	"github.com/hvnguyen/archr/util"
)

// Tar implements archr.Factory for tar files, optionally wrapped in an outer
// compression codec (tar.gz, tar.zst, tar.xz).
//
// Like rar, tar is forward-only: entry-stream opens rescan the container from
// the front, serialized at the Archive level. With a compressed outer stream
// every rescan decompresses everything before the wanted entry, which is
// exactly the access pattern the caching cursor exists to avoid repeating.
type Tar struct {
	// Codec decompresses the outer stream; nil reads plain tar.
	Codec codec.Codec
}

var _ archr.Factory = Tar{}

func (t Tar) Ext() string {
	if t.Codec != nil {
		return t.Codec.Ext()
	}

	return ".tar"
}

func (t Tar) Open(name string, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	if archr.ApplyOptions(optFns...).Password != "" {
		return nil, &archr.OpenError{Name: name, Err: archr.ErrPassword}
	}

	c := &tarContainer{name: name, codec: t.Codec}

	tr, closer, err := c.open()
	if err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = closer()
			return nil, &archr.OpenError{Name: name, Err: err}
		}

		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		c.entries = append(c.entries, &tarEntry{c: c, path: hdr.Name, size: hdr.Size})
	}

	if err = closer(); err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	return archr.New(c, optFns...), nil
}

type tarContainer struct {
	name    string
	codec   codec.Codec
	entries []archr.ContainerEntry
}

var _ archr.Container = &tarContainer{}

func (c *tarContainer) Entries() []archr.ContainerEntry {
	return c.entries
}

func (c *tarContainer) ConcurrentOpens() bool {
	return false
}

func (c *tarContainer) Close() error {
	// entry streams own their file handles; nothing held at container level.
	return nil
}

// open starts a fresh scan of the container, decompressing the outer stream
// if a codec is configured.
func (c *tarContainer) open() (*tar.Reader, func() error, error) {
	f, err := os.Open(c.name)
	if err != nil {
		return nil, nil, err
	}

	if c.codec == nil {
		return tar.NewReader(f), f.Close, nil
	}

	dec, err := c.codec.NewDecoder(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return tar.NewReader(dec), util.ChainCloser(dec.Close, f.Close), nil
}

type tarEntry struct {
	c    *tarContainer
	path string
	size int64
}

func (e *tarEntry) Path() string {
	return e.path
}

func (e *tarEntry) Length() (int64, bool) {
	return e.size, true
}

func (e *tarEntry) CompressedLength() (int64, bool) {
	// the outer codec compresses the whole container, not individual entries.
	return 0, false
}

func (e *tarEntry) Open() (io.ReadCloser, error) {
	tr, closer, err := e.c.open()
	if err != nil {
		return nil, err
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			err = fmt.Errorf(`entry "%s" no longer present in tar archive`, e.path)
		}
		if err != nil {
			_ = closer()
			return nil, err
		}

		if hdr.Typeflag == tar.TypeReg && hdr.Name == e.path {
			return &tarStream{Reader: tr, closer: closer}, nil
		}
	}
}

// tarStream limits reads to the current tar entry and closes the whole decode
// chain when done.
type tarStream struct {
	*tar.Reader
	closer func() error
}

func (s *tarStream) Close() error {
	return s.closer()
}
