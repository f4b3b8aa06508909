package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"device-sync/core/loader"
	"device-sync/core/logger"
	"device-sync/core/middleware/auth"
	"device-sync/core/middleware/rayid"
	"device-sync/core/status"
	devsync "device-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "device-sync/docs/swagger"
)

// @title Device Sync API
// @version 1.0
// @description Compares and synchronizes device categories against the engineering project.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd exposes compare and synchronize over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Loads the sheet exports once and serves the device endpoints until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := status.NewBus(64)
		s, err := openSession(context.Background(), bus)
		if err != nil {
			return err
		}
		defer s.log.Sync()
		zap.ReplaceGlobals(s.log)

		if err := s.cfg.Server.Validate(); err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(s.log)
		mgr.Register(devsync.NewFeature(s.orch, s.catalog, s.reporter, bus, s.log))

		// RayID first so every request is traced
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(s.log, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: s.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			s.log.Info("Starting server", zap.String("port", s.cfg.Server.Port))
			errCh <- app.Listen(s.cfg.Server.Address())
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-c:
		}
		s.log.Info("Shutting down server...")
		bus.Close()
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
