package devices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	deverrors "device-sync/core/errors"
	"device-sync/core/snapshot"
	"device-sync/core/storage"
	"device-sync/core/utils"

	"github.com/minio/minio-go/v7"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
)

const sheetSchemaURL = "sheet.schema.json"

// sheetSchema is the contract of one sheet export: an array of row objects that
// carry at least an id and a non-empty tag.
const sheetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "tag"],
    "properties": {
      "id": {"type": ["integer", "string"]},
      "tag": {"type": "string", "minLength": 1},
      "description": {"type": ["string", "null"]}
    }
  }
}`

// SheetLoader reads sheet exports from object storage and publishes them as a snapshot.
type SheetLoader struct {
	client       storage.Client
	bucket       string
	prefix       string
	limitsObject string
	catalog      *Catalog
	schema       *jsonschema.Schema
	logger       *zap.Logger
}

// NewSheetLoader creates a loader for the sheets of every catalog category.
func NewSheetLoader(client storage.Client, bucket, prefix, limitsObject string, catalog *Catalog, logger *zap.Logger) (*SheetLoader, error) {
	schema, err := compileSheetSchema()
	if err != nil {
		return nil, err
	}
	return &SheetLoader{
		client:       client,
		bucket:       bucket,
		prefix:       strings.Trim(prefix, "/"),
		limitsObject: limitsObject,
		catalog:      catalog,
		schema:       schema,
		logger:       logger,
	}, nil
}

func compileSheetSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(sheetSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(sheetSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add sheet schema: %w", err)
	}
	schema, err := c.Compile(sheetSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sheet schema: %w", err)
	}
	return schema, nil
}

// SheetObject returns the object name of a sheet export.
func (l *SheetLoader) SheetObject(sheet string) string {
	return path.Join(l.prefix, sheet+".json")
}

// Load reads the limit table and every category sheet, then publishes the result
// into store as a new snapshot. Nothing is published when any sheet fails.
func (l *SheetLoader) Load(ctx context.Context, store *snapshot.Store) (*snapshot.Snapshot, error) {
	exists, err := l.client.BucketExists(ctx, l.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, deverrors.NewNotFoundError("bucket", l.bucket)
	}

	limits, err := l.loadLimits(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*snapshot.Entry, len(l.catalog.Categories))
	for _, cat := range l.catalog.Categories {
		factory, err := Lookup(cat.Kind)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		rows, err := l.loadRows(ctx, cat.Sheet)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		entry := &snapshot.Entry{}
		seen := make(map[int]int, len(rows))
		for i, row := range rows {
			rec, err := factory(row)
			if err != nil {
				return nil, fmt.Errorf("category %s: row %d: %w", cat.Name, i+1, err)
			}
			if prev, dup := seen[rec.ID()]; dup {
				return nil, fmt.Errorf("category %s: row %d: id %d already used by row %d", cat.Name, i+1, rec.ID(), prev)
			}
			seen[rec.ID()] = i + 1
			entry.Records = append(entry.Records, rec)
		}

		entry.Limit.Name = cat.SizingLimitKey
		entry.Limit.Value, entry.HasLimit = limits[cat.SizingLimitKey]
		if !entry.HasLimit {
			l.logger.Warn("No sizing limit for category", zap.String("category", cat.Name), zap.String("key", cat.SizingLimitKey))
		}

		entries[cat.Name] = entry
		l.logger.Debug("Sheet loaded", zap.String("category", cat.Name), zap.Int("records", len(entry.Records)))
	}

	snap := store.Publish(entries, limits)
	l.logger.Info("Snapshot published", zap.Int64("version", snap.Version), zap.Int("categories", len(entries)))
	return snap, nil
}

// Available lists the sheet names exported under the loader prefix.
func (l *SheetLoader) Available(ctx context.Context) ([]string, error) {
	opts := minio.ListObjectsOptions{Prefix: l.prefix + "/", Recursive: false}

	var sheets []string
	for obj := range l.client.ListObjects(ctx, l.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list sheets: %w", obj.Err)
		}
		name := path.Base(obj.Key)
		if name == l.limitsObject || !strings.HasSuffix(name, ".json") {
			continue
		}
		sheets = append(sheets, strings.TrimSuffix(name, ".json"))
	}
	return sheets, nil
}

func (l *SheetLoader) loadLimits(ctx context.Context) (map[string]int, error) {
	data, err := l.read(ctx, path.Join(l.prefix, l.limitsObject))
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, deverrors.NewParseError(l.limitsObject, "invalid limit table", err)
	}

	limits := make(map[string]int, len(raw))
	for name, v := range raw {
		n, err := utils.CellInt(v)
		if err != nil {
			return nil, deverrors.NewParseError(l.limitsObject, "limit "+name, err)
		}
		limits[name] = n
	}
	return limits, nil
}

func (l *SheetLoader) loadRows(ctx context.Context, sheet string) ([]Row, error) {
	object := l.SheetObject(sheet)
	data, err := l.read(ctx, object)
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, deverrors.NewParseError(object, "invalid JSON", err)
	}
	if err := l.schema.Validate(inst); err != nil {
		return nil, deverrors.NewParseError(object, "sheet does not match schema", err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, deverrors.NewParseError(object, "invalid rows", err)
	}
	return rows, nil
}

func (l *SheetLoader) read(ctx context.Context, object string) ([]byte, error) {
	reader, err := l.client.GetObject(ctx, l.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		// minio reports a missing key on first read
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, deverrors.NewNotFoundError("object", object)
		}
		return nil, fmt.Errorf("failed to read %s: %w", object, err)
	}
	return data, nil
}
