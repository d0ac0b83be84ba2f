// Package codec provides the outer compression codecs for tar-based
// containers (tar.gz, tar.zst, tar.xz).
package codec

import (
	"io"
)

// Codec has methods to create compressor/encoder and decompressor/decoder.
type Codec interface {
	// NewDecoder creates a decoder to decompress contents from the given io.Reader.
	NewDecoder(src io.Reader) (io.ReadCloser, error)
	// NewEncoder creates an encoder to compress contents from the given io.Writer.
	NewEncoder(dst io.Writer) (io.WriteCloser, error)
	// Ext returns the file name extension of a tar archive compressed with this codec.
	Ext() string
}

// ForExt returns the codec for the given tar archive extension, or nil when
// the extension names plain tar or is unknown.
func ForExt(ext string) Codec {
	switch ext {
	case ".tar.gz", ".tgz", ".gz":
		return GzipCodec{}
	case ".tar.zst", ".zst":
		return ZstdCodec{}
	case ".tar.xz", ".txz", ".xz":
		return XzCodec{}
	default:
		return nil
	}
}
