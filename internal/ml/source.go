package ml

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used to fetch artifacts
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader opens model artifacts from local paths or s3://bucket/key URIs
type Loader struct {
	s3 ObjectGetter
}

// NewLoader creates a loader. s3Client may be nil when only local paths are used.
func NewLoader(s3Client ObjectGetter) *Loader {
	return &Loader{s3: s3Client}
}

// NewS3Loader creates a loader backed by an S3 client for region
func NewS3Loader(ctx context.Context, region string) (*Loader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewLoader(s3.NewFromConfig(awsCfg)), nil
}

// IsS3Path reports whether path is an s3:// URI
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// Open returns a reader for path
func (l *Loader) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if !IsS3Path(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open %s: %v", ErrModelUnavailable, path, err)
		}
		return f, nil
	}

	if l.s3 == nil {
		return nil, fmt.Errorf("%w: no S3 client configured for %s", ErrModelUnavailable, path)
	}
	bucket, key, err := parseS3Path(path)
	if err != nil {
		return nil, err
	}

	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get %s: %v", ErrModelUnavailable, path, err)
	}
	return out.Body, nil
}

func parseS3Path(path string) (string, string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid S3 path %s: %v", ErrModelUnavailable, path, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: S3 path %s needs a bucket and key", ErrModelUnavailable, path)
	}
	return u.Host, key, nil
}
