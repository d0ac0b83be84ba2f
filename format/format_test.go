package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hvnguyen/archr"
	"github.com/hvnguyen/archr/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName(t *testing.T) {
	tests := []struct {
		name string
		want archr.Factory
	}{
		{
			name: "book.epub",
			want: Zip{},
		},
		{
			name: "Bundle.ZIP",
			want: Zip{},
		},
		{
			name: "backup.7z",
			want: SevenZip{},
		},
		{
			name: "comic.cbr",
			want: Rar{},
		},
		{
			name: "data.tar",
			want: Tar{},
		},
		{
			name: "data.tar.gz",
			want: Tar{Codec: codec.GzipCodec{}},
		},
		{
			name: "data.tar.zst",
			want: Tar{Codec: codec.ZstdCodec{}},
		},
		{
			name: "data.tar.xz",
			want: Tar{Codec: codec.XzCodec{}},
		},
		{
			name: "README.md",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForName(tt.name))
		})
	}
}

func TestOpen_ByName(t *testing.T) {
	content := pattern(1000)
	name := writeZip(t, content, pattern(10))

	a, err := Open(t.Context(), name)
	require.NoError(t, err)
	defer a.Close()

	e, err := a.Entry("OEBPS/chapter1.html")
	require.NoError(t, err)

	data, err := e.Read(t.Context(), &archr.Range{Start: 0, End: 100})
	require.NoError(t, err)
	assert.Equal(t, content[:100], data)
}

func TestOpen_BySniffing(t *testing.T) {
	// zip content behind an unknown extension is identified by its magic.
	content := pattern(1000)
	src := writeZip(t, content, pattern(10))
	name := filepath.Join(t.TempDir(), "mystery.bin")

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(name, data, 0666))

	a, err := Open(t.Context(), name)
	require.NoError(t, err)
	defer a.Close()

	e, err := a.Entry("OEBPS/chapter1.html")
	require.NoError(t, err)

	got, err := e.Read(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestOpen_Unsupported(t *testing.T) {
	name := filepath.Join(t.TempDir(), "notes.bin")
	require.NoError(t, os.WriteFile(name, []byte("plain text, no archive here"), 0666))

	_, err := Open(t.Context(), name)
	var oe *archr.OpenError
	assert.ErrorAs(t, err, &oe)
}
