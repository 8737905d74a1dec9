// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface the archive needs,
// so both AWS S3 and self-hosted MinIO can receive inventory snapshots and uploads
// can be mocked in tests (see core/storage/mocks).
//
// # Archiver
//
// Archiver copies local files to <bucket>/<prefix>/<unix-seconds>/<name>, creating the
// bucket on first use. One Upload call shares a single timestamp, so the store, its
// digest and the report of one run land side by side.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	names, err := storage.NewArchiver(client, cfg.Storage, log).Upload(ctx, layout.Store, layout.Digest)
package storage
