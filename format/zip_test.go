package format

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/hvnguyen/archr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pattern returns n bytes where byte i == i mod 256.
func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 256)
	}

	return data
}

// writeZip creates a zip file with one deflated entry, one stored entry, and
// one directory entry.
func writeZip(t *testing.T, deflated, stored []byte) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(name)
	require.NoError(t, err)

	zw := zip.NewWriter(f)

	_, err = zw.CreateHeader(&zip.FileHeader{Name: "OEBPS/", Method: zip.Store})
	require.NoError(t, err)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: "OEBPS/chapter1.html", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = w.Write(deflated)
	require.NoError(t, err)

	w, err = zw.CreateHeader(&zip.FileHeader{Name: "OEBPS/cover.jpg", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write(stored)
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return name
}

func TestZip_Open(t *testing.T) {
	content := pattern(1000)
	name := writeZip(t, content, pattern(100))

	a, err := Zip{}.Open(name)
	require.NoError(t, err)
	defer a.Close()

	entries, err := a.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2, "directory entries are not exposed")
	assert.Equal(t, "OEBPS/chapter1.html", entries[0].Path())
	assert.Equal(t, "OEBPS/cover.jpg", entries[1].Path())

	e, err := a.Entry("OEBPS/chapter1.html")
	require.NoError(t, err)

	n, ok := e.Length()
	assert.True(t, ok)
	assert.Equal(t, int64(1000), n)

	// deflated entries expose a stored size, stored ones do not.
	_, ok = e.CompressedLength()
	assert.True(t, ok)

	e, err = a.Entry("OEBPS/cover.jpg")
	require.NoError(t, err)
	_, ok = e.CompressedLength()
	assert.False(t, ok)

	_, err = a.Entry("missing/path")
	assert.ErrorIs(t, err, archr.ErrEntryNotFound)
}

func TestZip_RangeReads(t *testing.T) {
	content := pattern(1000)
	name := writeZip(t, content, pattern(100))

	counter := 0
	a, err := Zip{}.Open(name, archr.WithOpenHook(func(string) { counter++ }))
	require.NoError(t, err)
	defer a.Close()

	e, err := a.Entry("OEBPS/chapter1.html")
	require.NoError(t, err)

	data, err := e.Read(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, 1, counter)

	// ascending chunks over the real deflate stream share one decoder.
	counter = 0
	for start := int64(0); start < 1000; start += 100 {
		data, err = e.Read(t.Context(), &archr.Range{Start: start, End: start + 100})
		require.NoError(t, err)
		require.Equal(t, content[start:start+100], data)
	}
	assert.Equal(t, 1, counter)

	// rewind decodes from the front again.
	data, err = e.Read(t.Context(), &archr.Range{Start: 5, End: 10})
	require.NoError(t, err)
	assert.Equal(t, content[5:10], data)
	assert.Equal(t, 2, counter)

	// over-length range truncates.
	data, err = e.Read(t.Context(), &archr.Range{Start: 900, End: 4000})
	require.NoError(t, err)
	assert.Equal(t, content[900:], data)
}

func TestZip_OpenReaderAt(t *testing.T) {
	content := pattern(1000)
	name := writeZip(t, content, pattern(100))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	fi, err := f.Stat()
	require.NoError(t, err)

	a, err := OpenZipReaderAt(f, fi.Size())
	require.NoError(t, err)
	defer a.Close()

	e, err := a.Entry("OEBPS/chapter1.html")
	require.NoError(t, err)

	data, err := e.Read(t.Context(), &archr.Range{Start: 100, End: 200})
	require.NoError(t, err)
	assert.Equal(t, content[100:200], data)
}

func TestZip_PasswordRejected(t *testing.T) {
	name := writeZip(t, pattern(10), pattern(10))

	_, err := Zip{}.Open(name, archr.WithPassword("hunter2"))
	assert.ErrorIs(t, err, archr.ErrPassword)

	var oe *archr.OpenError
	assert.ErrorAs(t, err, &oe)
}

func TestZip_OpenCorrupt(t *testing.T) {
	name := filepath.Join(t.TempDir(), "corrupt.zip")
	require.NoError(t, os.WriteFile(name, []byte("this is not a zip file"), 0666))

	_, err := Zip{}.Open(name)
	var oe *archr.OpenError
	assert.ErrorAs(t, err, &oe)
}

func TestZip_CloseReleasesEverything(t *testing.T) {
	name := writeZip(t, pattern(100), pattern(10))

	a, err := Zip{}.Open(name)
	require.NoError(t, err)

	e, err := a.Entry("OEBPS/chapter1.html")
	require.NoError(t, err)
	_, err = e.Read(t.Context(), &archr.Range{Start: 0, End: 10})
	require.NoError(t, err)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())

	_, err = e.Read(t.Context(), &archr.Range{Start: 0, End: 10})
	assert.ErrorIs(t, err, archr.ErrClosed)
}
