// Package format provides the concrete container-format bindings behind the
// archr abstraction: zip, 7z, rar, and tar with optional outer compression.
package format

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hvnguyen/archr"
	"github.com/hvnguyen/archr/codec"
	"github.com/mholt/archives"
)

// ForExt returns the Factory for the given canonical extension, or nil when
// the extension is not a supported container format.
func ForExt(ext string) archr.Factory {
	switch ext {
	case ".zip", ".epub", ".cbz", ".jar":
		return Zip{}
	case ".7z":
		return SevenZip{}
	case ".rar", ".cbr":
		return Rar{}
	case ".tar":
		return Tar{}
	case ".tar.gz", ".tgz", ".tar.zst", ".tar.xz", ".txz":
		return Tar{Codec: codec.ForExt(ext)}
	default:
		return nil
	}
}

// ForName returns the Factory matching the file name's extension, or nil when
// no supported format matches.
func ForName(name string) archr.Factory {
	name = strings.ToLower(name)
	for _, ext := range []string{
		".zip", ".epub", ".cbz", ".jar",
		".7z",
		".rar", ".cbr",
		".tar.gz", ".tgz", ".tar.zst", ".tar.xz", ".txz", ".tar",
	} {
		if strings.HasSuffix(name, ext) {
			return ForExt(ext)
		}
	}

	return nil
}

// Detect determines the container format by sniffing content, falling back on
// the file name when the content is inconclusive.
func Detect(ctx context.Context, name string, src *os.File) (archr.Factory, error) {
	f, _, err := archives.Identify(ctx, name, src)
	if err != nil {
		return nil, fmt.Errorf("identify archive format: %w", err)
	}

	if fac := ForExt(f.Extension()); fac != nil {
		return fac, nil
	}

	return nil, fmt.Errorf(`container format "%s" is not supported`, f.Extension())
}

// Open opens the named container file, picking the Factory by file name
// extension first and content sniffing second.
func Open(ctx context.Context, name string, optFns ...func(*archr.Options)) (*archr.Archive, error) {
	if fac := ForName(name); fac != nil {
		return fac.Open(name, optFns...)
	}

	src, err := os.Open(name)
	if err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	fac, err := Detect(ctx, name, src)
	_ = src.Close()
	if err != nil {
		return nil, &archr.OpenError{Name: name, Err: err}
	}

	return fac.Open(name, optFns...)
}
