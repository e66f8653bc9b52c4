// Package storage wraps the S3 bucket that holds listing images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rewear/rewear/internal/metrics"
)

// ImageURLExpiry is how long a signed image URL stays valid.
const ImageURLExpiry = time.Hour

// ErrStorageUnavailable indicates the object store rejected or failed a request.
var ErrStorageUnavailable = errors.New("object storage unavailable")

// AWS constructors are package variables so tests can replace them.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client          = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Options configures the S3 client.
type Options struct {
	Region string
	Bucket string
	// Endpoint, AccessKey and SecretKey target S3-compatible servers such as MinIO.
	Endpoint  string
	AccessKey string
	SecretKey string

	Recorder metrics.Recorder
}

// Client stores, removes and signs listing images in a single bucket.
type Client struct {
	bucket  string
	objects objectAPI
	presign presignAPI
	logger  *slog.Logger
	metrics metrics.Recorder
}

// New builds a Client from the default AWS credential chain, or from static
// credentials when opts carries them.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	c := newClient(opts.Bucket, client, s3.NewPresignClient(client), logger)
	if opts.Recorder != nil {
		c.metrics = opts.Recorder
	}
	return c, nil
}

func newClient(bucket string, objects objectAPI, presign presignAPI, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		bucket:  bucket,
		objects: objects,
		presign: presign,
		logger:  logger.With("component", "storage", "bucket", bucket),
		metrics: metrics.NewNoop(),
	}
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// Upload writes body under key.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := c.objects.PutObject(ctx, in); err != nil {
		c.metrics.IncImageOperation(metrics.OpUpload, metrics.StatusFailure)
		return fmt.Errorf("%w: put %s: %v", ErrStorageUnavailable, key, err)
	}
	c.metrics.IncImageOperation(metrics.OpUpload, metrics.StatusSuccess)
	c.logger.Debug("image uploaded", "key", key, "size", size)
	return nil
}

// DeleteImage removes key from the bucket. Failures are logged, never returned.
func (c *Client) DeleteImage(ctx context.Context, key string) {
	_, err := c.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.metrics.IncImageOperation(metrics.OpDelete, metrics.StatusFailure)
		c.logger.Warn("image delete failed", "key", key, "error", err)
		return
	}
	c.metrics.IncImageOperation(metrics.OpDelete, metrics.StatusSuccess)
	c.logger.Debug("image deleted", "key", key)
}

// SignedURL returns a presigned GET URL valid for ImageURLExpiry.
// The second result is false when signing failed.
func (c *Client) SignedURL(ctx context.Context, key string) (string, bool) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ImageURLExpiry))
	if err != nil {
		c.metrics.IncImageOperation(metrics.OpSign, metrics.StatusFailure)
		c.logger.Warn("image url signing failed", "key", key, "error", err)
		return "", false
	}
	c.metrics.IncImageOperation(metrics.OpSign, metrics.StatusSuccess)
	return req.URL, true
}

// Ping checks that the bucket exists and is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
