package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/middleware"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	"github.com/noah-isme/student-mental-health-api/internal/service"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
	"github.com/noah-isme/student-mental-health-api/pkg/response"
)

type dashboardStore interface {
	Snapshot() models.DashboardSnapshot
	Toggle(dimension models.Dimension, value string) (models.DashboardSnapshot, error)
	SelectNode(name string, category models.Dimension) (models.DashboardSnapshot, error)
	Clear(dimension models.Dimension) (models.DashboardSnapshot, error)
	ResetAll() (models.DashboardSnapshot, error)
	SetHover(owner models.ChartKind, el models.HoveredElement) (models.DashboardSnapshot, error)
	ClearHover(owner models.ChartKind) (models.DashboardSnapshot, error)
	Subscribe(fn func(models.DashboardSnapshot)) func()
}

// DashboardHandler exposes the shared filter, view and tooltip state.
type DashboardHandler struct {
	store    dashboardStore
	validate *validator.Validate
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(store dashboardStore, validate *validator.Validate) *DashboardHandler {
	if validate == nil {
		validate = service.NewRequestValidator()
	}
	return &DashboardHandler{store: store, validate: validate}
}

// Get godoc
// @Summary Current dashboard state
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	h.respond(c, h.store.Snapshot(), nil)
}

// Toggle godoc
// @Summary Select or deselect a filter value
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param payload body dto.ToggleSelectionRequest true "Selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/selection [post]
func (h *DashboardHandler) Toggle(c *gin.Context) {
	var req dto.ToggleSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid selection payload"))
		return
	}
	if err := service.ValidateRequest(h.validate, req); err != nil {
		response.Error(c, err)
		return
	}
	dimension, _ := models.ParseDimension(req.Dimension)
	snap, err := h.store.Toggle(dimension, strings.TrimSpace(req.Value))
	h.respond(c, snap, err)
}

// SelectNode godoc
// @Summary Apply a flow diagram node click
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param payload body dto.NodeSelectRequest true "Node"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/node-select [post]
func (h *DashboardHandler) SelectNode(c *gin.Context) {
	var req dto.NodeSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid node payload"))
		return
	}
	if err := service.ValidateRequest(h.validate, req); err != nil {
		response.Error(c, err)
		return
	}
	category, _ := models.ParseDimension(req.Category)
	snap, err := h.store.SelectNode(strings.TrimSpace(req.Name), category)
	h.respond(c, snap, err)
}

// Clear godoc
// @Summary Remove the filter tag of a dimension
// @Tags Dashboard
// @Produce json
// @Param dimension path string true "age, condition or treatment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/selection/{dimension} [delete]
func (h *DashboardHandler) Clear(c *gin.Context) {
	dimension, ok := models.ParseDimension(c.Param("dimension"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown dimension"))
		return
	}
	snap, err := h.store.Clear(dimension)
	h.respond(c, snap, err)
}

// Reset godoc
// @Summary Clear every filter and return to the overview
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/reset [post]
func (h *DashboardHandler) Reset(c *gin.Context) {
	snap, err := h.store.ResetAll()
	h.respond(c, snap, err)
}

// HoverTag godoc
// @Summary Hover a filter tag
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param dimension path string true "age, condition or treatment"
// @Param payload body dto.TagHoverRequest false "Pointer"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/tags/{dimension}/hover [post]
func (h *DashboardHandler) HoverTag(c *gin.Context) {
	dimension, ok := models.ParseDimension(c.Param("dimension"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown dimension"))
		return
	}
	var req dto.TagHoverRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pointer payload"))
		return
	}
	value := h.store.Snapshot().Filter.Value(dimension)
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no active tag for "+string(dimension)))
		return
	}
	snap, err := h.store.SetHover("", models.HoveredElement{
		Kind:     models.ElementNode,
		Category: string(dimension),
		Name:     value,
		Pointer:  models.Pointer{X: req.X, Y: req.Y},
	})
	h.respond(c, snap, err)
}

// ClearHover godoc
// @Summary Hide the tooltip
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/hover [delete]
func (h *DashboardHandler) ClearHover(c *gin.Context) {
	snap, err := h.store.ClearHover("")
	h.respond(c, snap, err)
}

// Events godoc
// @Summary Stream dashboard snapshots
// @Tags Dashboard
// @Produce text/event-stream
// @Success 200 {string} string "snapshot events"
// @Router /dashboard/events [get]
func (h *DashboardHandler) Events(c *gin.Context) {
	updates := make(chan models.DashboardSnapshot, 1)
	unsubscribe := h.store.Subscribe(func(snap models.DashboardSnapshot) {
		select {
		case updates <- snap:
		default:
			// Replace the undelivered snapshot with the newer one.
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	})
	defer unsubscribe()

	response.EventStream(c)
	current := h.store.Snapshot()
	response.Event(c, "snapshot", dashboardResponse(current))
	lastVersion := current.Version

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap := <-updates:
			if snap.Version <= lastVersion {
				return true
			}
			lastVersion = snap.Version
			response.Event(c, "snapshot", dashboardResponse(snap))
			return true
		}
	})
}

func (h *DashboardHandler) respond(c *gin.Context, snap models.DashboardSnapshot, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetDashboardVersion(c, snap.Version)
	middleware.SetTransitioning(c, snap.View.Transitioning)
	response.JSON(c, http.StatusOK, dashboardResponse(snap), middleware.ExtractMeta(c))
}

func dashboardResponse(snap models.DashboardSnapshot) dto.DashboardResponse {
	view := snap.View.Active
	return dto.NewDashboardResponse(snap, service.ViewTitle(view), service.MountedCharts(view))
}
