package s3source

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hvnguyen/archr"
	"github.com/hvnguyen/archr/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient implements Client by slicing into its in-memory data.
type testClient struct {
	data []byte

	// mu guards write access to calls.
	mu    sync.Mutex
	calls []s3.GetObjectInput
}

func (c *testClient) HeadObject(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(c.data)))}, nil
}

func (c *testClient) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mu.Lock()
	c.calls = append(c.calls, *input)
	c.mu.Unlock()

	values := strings.SplitN(strings.TrimPrefix(aws.ToString(input.Range), "bytes="), "-", 2)
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected range `%s`", aws.ToString(input.Range))
	}

	i, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start byte in range `%s`: %w", aws.ToString(input.Range), err)
	}

	j, err := strconv.ParseInt(values[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end byte in range `%s`: %w", aws.ToString(input.Range), err)
	}

	if j >= int64(len(c.data)) {
		j = int64(len(c.data)) - 1
	}

	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(c.data[i : j+1])),
	}, nil
}

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 256)
	}

	return data
}

func TestReader_ReadAt(t *testing.T) {
	client := &testClient{data: pattern(10000)}

	r, err := New(client, "my-bucket", "my-key")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), r.Size())

	p := make([]byte, 100)
	n, err := r.ReadAt(p, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, pattern(10000)[5000:5100], p)

	// read extending past the object returns the available bytes and io.EOF.
	n, err = r.ReadAt(p, 9950)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 50, n)
	assert.Equal(t, pattern(10000)[9950:], p[:50])

	// offset entirely past the object.
	_, err = r.ReadAt(p, 20000)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_ZipOverS3(t *testing.T) {
	// a zip container in S3 is range-read without ever fetching the whole
	// object.
	content := pattern(100000)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "chapter1.html", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	client := &testClient{data: buf.Bytes()}
	r, err := New(client, "books", "book.epub")
	require.NoError(t, err)

	a, err := format.OpenZipReaderAt(r, r.Size())
	require.NoError(t, err)
	defer a.Close()

	e, err := a.Entry("chapter1.html")
	require.NoError(t, err)

	data, err := e.Read(t.Context(), &archr.Range{Start: 1000, End: 2000})
	require.NoError(t, err)
	assert.Equal(t, content[1000:2000], data)

	assert.NotEmpty(t, client.calls)
}
