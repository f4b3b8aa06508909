package cmd

import (
	"context"
	"fmt"

	"device-sync/core/config"
	"device-sync/core/logger"
	"device-sync/core/snapshot"
	"device-sync/core/storage"
	"device-sync/feature/devices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listSheets bool

// categoriesCmd lists the configured device categories.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List configured device categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		catalog, err := devices.LoadCatalog(cfg.Sync.CategoriesFile)
		if err != nil {
			return err
		}
		for _, c := range catalog.Categories {
			l.Info("Category",
				zap.String("name", c.Name),
				zap.String("kind", c.Kind),
				zap.String("sheet", c.Sheet),
				zap.String("constant_table", c.ConstantTable),
				zap.String("block", c.Block),
				zap.String("array", c.Array),
			)
		}
		l.Info("Registered kinds", zap.Strings("kinds", devices.Kinds()))

		if !listSheets {
			return nil
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		loader, err := devices.NewSheetLoader(client, cfg.Storage.Bucket, cfg.Sync.SheetPrefix, cfg.Sync.LimitsObject, catalog, l)
		if err != nil {
			return err
		}
		ctx := context.Background()
		sheets, err := loader.Available(ctx)
		if err != nil {
			return err
		}
		l.Info("Available sheet exports", zap.Strings("sheets", sheets))

		snap, err := loader.Load(ctx, snapshot.NewStore())
		if err != nil {
			l.Warn("Sheet exports do not load", zap.Error(err))
			return nil
		}
		l.Info("Sizing limits", zap.Any("limits", snap.Limits()))
		return nil
	},
}

func init() {
	categoriesCmd.Flags().BoolVar(&listSheets, "sheets", false, "Also list sheet exports and sizing limits found in storage")
	RootCmd.AddCommand(categoriesCmd)
}
