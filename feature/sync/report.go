package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"device-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Reporter uploads run results to object storage next to the sheet exports.
type Reporter struct {
	client storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewReporter creates a Reporter writing under prefix in bucket.
func NewReporter(client storage.Client, bucket, prefix string) *Reporter {
	return &Reporter{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

// Write uploads v as JSON to <prefix>/<category>/<kind>-<timestamp>.json and
// returns the object key.
func (r *Reporter) Write(ctx context.Context, category, kind string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s report: %w", kind, err)
	}

	name := fmt.Sprintf("%s-%s.json", kind, r.now().UTC().Format("20060102T150405Z"))
	key := path.Join(r.prefix, strings.ToLower(category), name)

	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	return key, nil
}
