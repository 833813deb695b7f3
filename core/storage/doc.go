// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the reconciler needs: reading snapshot files, writing reports and
// listing available snapshots. This abstraction supports both AWS S3 and
// self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket checks, see EnsureBucket.
//   - PutObject: uploads content (with size and options).
//   - GetObject: retrieves content as a stream.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	reader, err := client.GetObject(ctx, "migration", "snapshots/source.csv", minio.GetObjectOptions{})
package storage
