// Package internal holds helpers shared by the archr CLI commands.
package internal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hvnguyen/archr"
	"github.com/hvnguyen/archr/format"
	"github.com/hvnguyen/archr/s3source"
)

// OpenArchive opens a local file or, for "s3://bucket/key" names, a remote
// container accessed through ranged GetObject.
//
// Remote access is limited to the ReaderAt-based formats (zip and 7z); the
// forward-only formats would end up downloading the object many times over.
func OpenArchive(ctx context.Context, name, password string) (*archr.Archive, error) {
	var optFns []func(*archr.Options)
	if password != "" {
		optFns = append(optFns, archr.WithPassword(password))
	}

	if !strings.HasPrefix(name, "s3://") {
		return format.Open(ctx, name, optFns...)
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(name, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf(`invalid S3 URI "%s"; expected s3://bucket/key`, name)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config error: %w", err)
	}

	src, err := s3source.New(s3.NewFromConfig(cfg), bucket, key, func(opts *s3source.Options) {
		opts.CtxFn = func() context.Context { return ctx }
		s3source.WithProgressLogger(log.Default(), 5*time.Second)(opts)
	})
	if err != nil {
		return nil, err
	}

	switch fac := format.ForName(key).(type) {
	case format.Zip:
		return format.OpenZipReaderAt(src, src.Size(), optFns...)
	case format.SevenZip:
		return format.OpenSevenZipReaderAt(src, src.Size(), optFns...)
	default:
		return nil, fmt.Errorf(`remote container "%s" is not a zip or 7z archive (got %T)`, name, fac)
	}
}
