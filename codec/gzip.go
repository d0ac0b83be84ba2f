package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec implements Codec for the gzip compression algorithm.
type GzipCodec struct{}

var _ Codec = GzipCodec{}

func (c GzipCodec) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(src)
}

func (c GzipCodec) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(dst, gzip.BestCompression)
}

func (c GzipCodec) Ext() string {
	return ".tar.gz"
}
