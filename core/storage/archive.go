package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads copies of local files under a timestamped prefix.
type Archiver struct {
	client Client
	bucket string
	prefix string
	region string
	logger *zap.Logger
	now    func() time.Time
}

// NewArchiver creates an archiver writing to the bucket and prefix of cfg.
func NewArchiver(client Client, cfg Config, logger *zap.Logger) *Archiver {
	return &Archiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces time.Now as the source of the snapshot stamp.
func (a *Archiver) WithClock(now func() time.Time) *Archiver {
	a.now = now
	return a
}

// EnsureBucket creates the bucket when it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

// ObjectName returns the object name of file within the snapshot taken at stamp.
func (a *Archiver) ObjectName(stamp time.Time, file string) string {
	return path.Join(a.prefix, strconv.FormatInt(stamp.Unix(), 10), filepath.Base(file))
}

// Upload stores every file under <prefix>/<unix-seconds>/<name> and returns the object names.
func (a *Archiver) Upload(ctx context.Context, files ...string) ([]string, error) {
	if err := a.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	stamp := a.now()
	names := make([]string, 0, len(files))
	for _, file := range files {
		name := a.ObjectName(stamp, file)
		if err := a.put(ctx, file, name); err != nil {
			return nil, err
		}
		names = append(names, name)
		a.logger.Info("Archived file", zap.String("bucket", a.bucket), zap.String("object", name))
	}
	return names, nil
}

func (a *Archiver) put(ctx context.Context, file, name string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, name, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}
