package minio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

const (
	snapshotPrefix = "stats/"
	latestKey      = snapshotPrefix + "latest.json"
	contentJSON    = "application/json"
)

// SnapshotInfo describes a stored statistics snapshot.
type SnapshotInfo = common.SnapshotInfo

// ExportLink is a time-limited download URL for the latest snapshot.
type ExportLink = common.ExportLink

// ExportRepository writes and serves statistics snapshots.
type ExportRepository struct {
	client *Client
	logger logging.Logger
	now    func() time.Time
}

// NewExportRepository returns a repository over client.
func NewExportRepository(client *Client, logger logging.Logger) *ExportRepository {
	return &ExportRepository{client: client, logger: logger, now: time.Now}
}

// SnapshotKey is the object key of a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return fmt.Sprintf("%s%s.json", snapshotPrefix, t.UTC().Format("20060102T150405Z"))
}

// PutSnapshot writes body under a timestamped key and overwrites latest.json.
func (r *ExportRepository) PutSnapshot(ctx context.Context, body []byte) (*SnapshotInfo, error) {
	at := r.now().UTC()
	key := SnapshotKey(at)
	for _, k := range []string{key, latestKey} {
		_, err := r.client.api.PutObject(ctx, r.client.Bucket(), k, bytes.NewReader(body), int64(len(body)),
			minio.PutObjectOptions{ContentType: contentJSON})
		if err != nil {
			return nil, errors.New(errors.ErrCodeStorageError, "failed to upload snapshot").WithDetail("key=" + k).WithCause(err)
		}
	}
	r.logger.Info("statistics snapshot exported", logging.String("key", key), logging.Int("bytes", len(body)))
	return &SnapshotInfo{Key: key, Size: int64(len(body)), CreatedAt: at}, nil
}

// LatestLink presigns latest.json. A bucket with no snapshot yet yields a
// not-found error.
func (r *ExportRepository) LatestLink(ctx context.Context) (*ExportLink, error) {
	info, err := r.client.api.StatObject(ctx, r.client.Bucket(), latestKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.NotFound("no statistics snapshot exported yet")
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat latest snapshot")
	}

	expiry := r.client.cfg.PresignExpiry
	u, err := r.client.api.PresignedGetObject(ctx, r.client.Bucket(), latestKey, expiry, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign latest snapshot")
	}
	return &ExportLink{
		URL:       u.String(),
		ExpiresAt: r.now().UTC().Add(expiry),
		Snapshot:  SnapshotInfo{Key: latestKey, Size: info.Size, CreatedAt: info.LastModified},
	}, nil
}

//Personal.AI order the ending
