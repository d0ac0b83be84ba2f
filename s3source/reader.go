// Package s3source provides random access to container files stored in S3
// through ranged GetObject calls, so that zip or 7z archives can be consumed
// remotely without downloading them first.
package s3source

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

// Reader uses ranged GetObject to provide random access to one S3 object.
//
// Reader can be passed to format.OpenZipReaderAt or format.OpenSevenZipReaderAt.
type Reader interface {
	io.ReaderAt
	Size() int64
}

// Client abstracts the S3 APIs that are needed to implement Reader.
type Client interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Options customises New.
type Options struct {
	// CtxFn returns a context.Context to be used with every GetObject or HeadObject call.
	//
	// By default, context.Background is used.
	CtxFn func() context.Context

	// ModifyGetObjectInput can be used to modify the GetObject input parameters such as adding ExpectedBucketOwner.
	ModifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput

	// ModifyHeadObjectInput can be used to modify the HeadObject input parameters such as adding ExpectedBucketOwner.
	ModifyHeadObjectInput func(*s3.HeadObjectInput) *s3.HeadObjectInput

	logger   *log.Logger
	interval time.Duration
}

// WithProgressLogger logs the cumulative number of bytes fetched, at most
// once per interval.
//
// Useful to see how much of a remote container a sequence of range reads
// actually transferred.
func WithProgressLogger(logger *log.Logger, interval time.Duration) func(*Options) {
	return func(opts *Options) {
		opts.logger = logger
		opts.interval = interval
	}
}

// New returns a Reader for the given bucket and key.
//
// HeadObject is called once to determine the object's size.
func New(client Client, bucket, key string, optFns ...func(*Options)) (Reader, error) {
	opts := &Options{
		CtxFn: context.Background,
		ModifyGetObjectInput: func(input *s3.GetObjectInput) *s3.GetObjectInput {
			return input
		},
		ModifyHeadObjectInput: func(input *s3.HeadObjectInput) *s3.HeadObjectInput {
			return input
		},
	}
	for _, fn := range optFns {
		fn(opts)
	}

	headObjectOutput, err := client.HeadObject(opts.CtxFn(), opts.ModifyHeadObjectInput(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}))
	if err != nil {
		return nil, fmt.Errorf("determine object size error: %w", err)
	}

	r := &reader{
		client:               client,
		bucket:               bucket,
		key:                  key,
		ctxFn:                opts.CtxFn,
		modifyGetObjectInput: opts.ModifyGetObjectInput,
		size:                 aws.ToInt64(headObjectOutput.ContentLength),
	}
	if opts.logger != nil {
		r.logger = opts.logger
		r.rate = &rate.Sometimes{Interval: opts.interval}
	}

	return r, nil
}

type reader struct {
	client               Client
	bucket, key          string
	ctxFn                func() context.Context
	modifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput
	size                 int64

	logger *log.Logger
	rate   *rate.Sometimes

	// mu guards fetched; ReadAt may be called concurrently.
	mu      sync.Mutex
	fetched int64
}

func (r *reader) Size() int64 {
	return r.size
}

func (r *reader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= r.size {
		return 0, io.EOF
	}

	end := off + int64(len(p))
	if end > r.size {
		end = r.size
	}
	if end == off {
		return 0, nil
	}

	getObjectOutput, err := r.client.GetObject(r.ctxFn(), r.modifyGetObjectInput(&s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end-1)),
	}))
	if err != nil {
		return 0, fmt.Errorf("ranged get error: %w", err)
	}

	n, err = io.ReadFull(getObjectOutput.Body, p[:end-off])
	if cerr := getObjectOutput.Body.Close(); err == nil {
		err = cerr
	}

	if r.logger != nil && n > 0 {
		r.mu.Lock()
		r.fetched += int64(n)
		fetched := r.fetched
		r.mu.Unlock()

		r.rate.Do(func() {
			r.logger.Printf("fetched %s / %s so far", humanize.IBytes(uint64(fetched)), humanize.IBytes(uint64(r.size)))
		})
	}

	if err == nil && int64(n) < int64(len(p)) {
		// p extended past the object; io.ReaderAt must report why.
		err = io.EOF
	}

	return n, err
}
