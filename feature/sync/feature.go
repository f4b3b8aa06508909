package sync

import (
	"device-sync/core/status"
	"device-sync/feature/devices"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the devices feature around an orchestrator. reporter and bus may be nil.
func NewFeature(orch *Orchestrator, catalog *devices.Catalog, reporter *Reporter, bus *status.Bus, logger *zap.Logger) *Feature {
	h := NewHandler(orch, catalog, reporter, logger)
	h.bus = bus
	return &Feature{handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "devices"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
