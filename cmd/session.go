package cmd

import (
	"context"
	"fmt"

	"device-sync/core/config"
	"device-sync/core/database"
	"device-sync/core/logger"
	"device-sync/core/snapshot"
	"device-sync/core/status"
	"device-sync/core/storage"
	"device-sync/core/target/projectdb"
	"device-sync/feature/devices"
	devsync "device-sync/feature/sync"

	"go.uber.org/zap"
)

// session wires everything a command needs to compare or synchronize.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	catalog  *devices.Catalog
	client   storage.Client
	store    *snapshot.Store
	orch     *devsync.Orchestrator
	reporter *devsync.Reporter
}

// openSession loads configuration, the category catalog and the current sheet
// exports, and connects to the project database. Status messages go to the
// logger and to every extra channel.
func openSession(ctx context.Context, extra ...status.Channel) (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	catalog, err := devices.LoadCatalog(cfg.Sync.CategoriesFile)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	sheets, err := devices.NewSheetLoader(client, cfg.Storage.Bucket, cfg.Sync.SheetPrefix, cfg.Sync.LimitsObject, catalog, l)
	if err != nil {
		return nil, err
	}

	store := snapshot.NewStore()
	snap, err := sheets.Load(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet exports: %w", err)
	}
	l.Info("Sheet exports loaded", zap.Int64("version", snap.Version), zap.Int("categories", len(catalog.Categories)))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo, err := projectdb.New(db)
	if err != nil {
		return nil, err
	}

	orch := devsync.New(devsync.Options{
		Repo:       repo,
		Source:     store,
		Categories: catalog,
		Status:     append(status.Multi{status.NewLogger(l)}, extra...),
		Logger:     l,
		SizingTTL:  cfg.Sync.SizingCacheTTL(),
	})

	var reporter *devsync.Reporter
	if cfg.Server.ReportPrefix != "" {
		reporter = devsync.NewReporter(client, cfg.Storage.Bucket, cfg.Server.ReportPrefix)
	}

	return &session{
		cfg:      cfg,
		log:      l,
		catalog:  catalog,
		client:   client,
		store:    store,
		orch:     orch,
		reporter: reporter,
	}, nil
}

// markAll flags the given ids of a category for deletion.
func (s *session) markAll(category string, ids []int) error {
	for _, id := range ids {
		if err := s.orch.MarkForDeletion(category, id); err != nil {
			return err
		}
	}
	return nil
}

// upload writes a report when a report prefix is configured.
func (s *session) upload(ctx context.Context, category, kind string, v any) {
	if s.reporter == nil {
		return
	}
	key, err := s.reporter.Write(ctx, category, kind, v)
	if err != nil {
		s.log.Warn("Report upload failed", zap.Error(err))
		return
	}
	s.log.Info("Report uploaded", zap.String("key", key))
}
