package sync

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	deverrors "device-sync/core/errors"
	"device-sync/core/logger"
	"device-sync/core/status"
	"device-sync/feature/devices"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHeartbeat is the interval of keep-alive comments on the event stream.
const EventHeartbeat = 15 * time.Second

// Handler handles HTTP requests for device categories.
type Handler struct {
	orch      *Orchestrator
	catalog   *devices.Catalog
	reporter  *Reporter
	bus       *status.Bus
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewHandler creates a new HTTP handler. reporter may be nil.
func NewHandler(orch *Orchestrator, catalog *devices.Catalog, reporter *Reporter, logger *zap.Logger) *Handler {
	return &Handler{orch: orch, catalog: catalog, reporter: reporter, logger: logger, heartbeat: EventHeartbeat}
}

// RegisterRoutes registers the device routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/devices")
	group.Get("/", h.HandleListCategories)
	if h.bus != nil {
		group.Get("/status", h.HandleStatus)
		group.Get("/events", h.HandleEvents)
	}
	group.Post("/:category/sync", h.HandleSynchronize)
	group.Get("/:category/compare", h.HandleCompare)
	group.Get("/:category/plan", h.HandlePlan)
	group.Get("/:category/view", h.HandleLastView)
	group.Get("/:category/sizing", h.HandleSizing)
	group.Post("/:category/records/:id/delete", h.HandleMarkForDeletion)
}

// HandleListCategories returns the configured categories.
// @Summary List Categories
// @Tags devices
// @Produce json
// @Success 200 {array} model.CategoryConfig "Categories"
// @Router /devices [get]
func (h *Handler) HandleListCategories(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Categories)
}

// HandleStatus reports whether a session is running.
// @Summary Session Status
// @Tags devices
// @Produce json
// @Success 200 {object} map[string]bool "Busy flag"
// @Router /devices/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"busy": h.bus.Busy()})
}

// HandleEvents streams status messages as server-sent events until the client
// goes away or the bus is closed. A comment line is written every heartbeat so a
// dropped client is noticed while no messages flow.
// @Summary Status Events
// @Tags devices
// @Produce text/event-stream
// @Router /devices/events [get]
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")

	msgs, cancel := h.bus.Subscribe()
	heartbeat := h.heartbeat
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case m, ok := <-msgs:
				if !ok {
					return
				}
				data, err := json.Marshal(m)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

// HandleSynchronize runs all sync phases for a category.
// @Summary Synchronize Category
// @Description Converges the target to the desired records of a category and verifies the result.
// @Tags devices
// @Produce json
// @Param category path string true "Category name (e.g. 'Valves')"
// @Success 200 {object} PhaseOutcome "Phase outcome"
// @Failure 404 {object} map[string]string "Unknown category"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/{category}/sync [post]
func (h *Handler) HandleSynchronize(c *fiber.Ctx) error {
	category := c.Params("category")
	l := logger.WithCategory(logger.WithRayID(h.logger, c), category)

	out, err := h.orch.Synchronize(c.Context(), category)
	if err != nil {
		l.Error("Synchronization failed", zap.Error(err))
		return h.fail(c, err)
	}

	if h.reporter != nil {
		if key, err := h.reporter.Write(c.Context(), out.Category, "sync", out); err != nil {
			l.Warn("Report upload failed", zap.Error(err))
		} else {
			c.Set("X-Report-Key", key)
		}
	}
	return c.JSON(out)
}

// HandleCompare compares a category against the target.
// @Summary Compare Category
// @Tags devices
// @Produce json
// @Param category path string true "Category name"
// @Param preserve query boolean false "Keep records flagged for deletion"
// @Success 200 {object} model.DiffResult "Comparison"
// @Failure 404 {object} map[string]string "Unknown category"
// @Router /devices/{category}/compare [get]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	category := c.Params("category")
	diff, err := h.orch.Compare(c.Context(), category, c.QueryBool("preserve", false))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Compare failed", zap.String("category", category), zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(diff)
}

// HandlePlan returns the constant changes the next sync would make.
// @Summary Plan Category Sync
// @Tags devices
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} reconcile.ConstantPlan "Planned actions"
// @Failure 404 {object} map[string]string "Unknown category"
// @Router /devices/{category}/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	plan, err := h.orch.Plan(c.Context(), c.Params("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(plan)
}

// HandleLastView returns the last comparison of a category.
// @Summary Last Comparison
// @Tags devices
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} model.DiffResult "Comparison"
// @Failure 404 {object} map[string]string "No comparison yet"
// @Router /devices/{category}/view [get]
func (h *Handler) HandleLastView(c *fiber.Ctx) error {
	diff, ok := h.orch.LastView(c.Params("category"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no comparison for this category yet"})
	}
	return c.JSON(diff)
}

// HandleSizing returns the sizing constant held by the target.
// @Summary Target Sizing
// @Tags devices
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} map[string]interface{} "Sizing"
// @Router /devices/{category}/sizing [get]
func (h *Handler) HandleSizing(c *fiber.Ctx) error {
	category := c.Params("category")
	actual, err := h.orch.ActualSizing(c.Context(), category)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"category": category, "actual": actual})
}

// HandleMarkForDeletion flags a record for removal on the next sync.
// @Summary Mark Record For Deletion
// @Tags devices
// @Param category path string true "Category name"
// @Param id path int true "Record id"
// @Success 204
// @Failure 404 {object} map[string]string "Unknown category or record"
// @Router /devices/{category}/records/{id}/delete [post]
func (h *Handler) HandleMarkForDeletion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be a non-negative integer"})
	}
	if err := h.orch.MarkForDeletion(c.Params("category"), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if deverrors.Is(err, deverrors.ErrNotFound) || deverrors.Is(err, deverrors.ErrUnknownCategory) {
		code = fiber.StatusNotFound
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
