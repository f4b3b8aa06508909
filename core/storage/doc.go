// Package storage wraps the MinIO Go client for the object store that sits between
// the spreadsheet extraction and this tool.
//
// The extraction process drops one JSON export per sheet plus a limits object into
// a bucket; the sheet loader reads them back through Client. Compare reports can be
// written to the same bucket.
//
// # Client Interface
//
// Client is the subset of minio.Client the application uses, which keeps it easy to
// mock (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
