// Package minio stores statistics snapshot exports in an S3-compatible
// bucket through minio-go.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

const (
	DefaultBucket        = "atlas-exports"
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = time.Hour
)

// ObjectAPI is the subset of *minio.Client the atlas uses.
type ObjectAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Client wraps the object API with the configured bucket.
type Client struct {
	api    ObjectAPI
	cfg    config.MinIOConfig
	logger logging.Logger
}

// NewClient connects to the endpoint, then makes sure the export bucket
// exists and carries the retention rule.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	applyDefaults(&cfg)

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	c := NewClientWithAPI(api, cfg, log)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := api.ListBuckets(connectCtx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if err := c.EnsureBucket(connectCtx); err != nil {
		return nil, err
	}

	log.Info("minio client connected", logging.String("endpoint", cfg.Endpoint), logging.String("bucket", cfg.Bucket))
	return c, nil
}

// NewClientWithAPI wraps an existing ObjectAPI. Tests pass a mock.
func NewClientWithAPI(api ObjectAPI, cfg config.MinIOConfig, log logging.Logger) *Client {
	applyDefaults(&cfg)
	return &Client{api: api, cfg: cfg, logger: log}
}

func applyDefaults(cfg *config.MinIOConfig) {
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}
}

// Bucket returns the export bucket name.
func (c *Client) Bucket() string { return c.cfg.Bucket }

// EnsureBucket creates the bucket when missing and applies the retention
// rule for timestamped snapshots. A lifecycle failure is logged, not returned.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket")
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket "+c.cfg.Bucket)
		}
		c.logger.Info("created bucket", logging.String("bucket", c.cfg.Bucket))
	}

	if c.cfg.RetentionDays > 0 {
		lc := lifecycle.NewConfiguration()
		lc.Rules = []lifecycle.Rule{{
			ID:         "stats-retention",
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: snapshotPrefix},
			Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(c.cfg.RetentionDays)},
		}}
		if err := c.api.SetBucketLifecycle(ctx, c.cfg.Bucket, lc); err != nil {
			c.logger.Warn("failed to set bucket lifecycle", logging.String("bucket", c.cfg.Bucket), logging.Err(err))
		}
	}
	return nil
}

// HealthCheck lists buckets and reports the round-trip error, if any.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio unreachable")
	}
	return nil
}

//Personal.AI order the ending
