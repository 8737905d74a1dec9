package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bitbackup/core/storage"
	"bitbackup/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newArchiver(client storage.Client) *storage.Archiver {
	cfg := storage.Config{Bucket: "vault", Prefix: "nas/photos"}
	return storage.NewArchiver(client, cfg, zap.NewNop()).
		WithClock(func() time.Time { return time.Unix(1700000000, 0) })
}

func TestArchiver_Upload(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, ".bitbackup.sqlite3")
	digest := filepath.Join(dir, ".bitbackup.sqlite3.sha512")
	require.NoError(t, os.WriteFile(store, []byte("sqlite"), 0o644))
	require.NoError(t, os.WriteFile(digest, []byte("abc"), 0o644))

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "vault").Return(true, nil)
	client.On("PutObject", mock.Anything, "vault", "nas/photos/1700000000/.bitbackup.sqlite3", mock.Anything, int64(6), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PutObject", mock.Anything, "vault", "nas/photos/1700000000/.bitbackup.sqlite3.sha512", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	names, err := newArchiver(client).Upload(context.Background(), store, digest)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"nas/photos/1700000000/.bitbackup.sqlite3",
		"nas/photos/1700000000/.bitbackup.sqlite3.sha512",
	}, names)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiver_CreatesMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "vault").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "vault", mock.Anything).Return(nil).Once()

	require.NoError(t, newArchiver(client).EnsureBucket(context.Background()))
	client.AssertExpectations(t)
}

func TestArchiver_UploadFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "vault").Return(true, nil)
	client.On("PutObject", mock.Anything, "vault", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	_, err := newArchiver(client).Upload(context.Background(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestArchiver_MissingFile(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "vault").Return(true, nil)

	_, err := newArchiver(client).Upload(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiver_ObjectNameWithoutPrefix(t *testing.T) {
	a := storage.NewArchiver(new(mocks.Client), storage.Config{Bucket: "b"}, zap.NewNop())
	assert.Equal(t, "1700000000/report.csv", a.ObjectName(time.Unix(1700000000, 0), "/x/y/report.csv"))
}
