package handler

import (
	"context"
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

type chartService interface {
	Render(ctx context.Context, kind models.ChartKind) (*dto.ChartModel, error)
	PointerEnter(ctx context.Context, kind models.ChartKind, elementID string, pointer models.Pointer) (models.DashboardSnapshot, error)
	PointerLeave(kind models.ChartKind, elementID string) (models.DashboardSnapshot, error)
	Click(ctx context.Context, kind models.ChartKind, elementID string) (models.DashboardSnapshot, error)
}

type chartExporter interface {
	Export(ctx context.Context, kind models.ChartKind, format service.ExportFormat) (*service.ExportResult, error)
}

// ChartHandler serves chart models and forwards pointer events to the adapters.
type ChartHandler struct {
	charts   chartService
	exports  chartExporter
	validate *validator.Validate
}

// NewChartHandler constructs the handler. exports may be nil when downloads are off.
func NewChartHandler(charts chartService, exports chartExporter, validate *validator.Validate) *ChartHandler {
	if validate == nil {
		validate = service.NewRequestValidator()
	}
	return &ChartHandler{charts: charts, exports: exports, validate: validate}
}

// Get godoc
// @Summary Render a chart under the current filter
// @Tags Charts
// @Produce json
// @Param kind path string true "sankey, bar, pie or cgpa"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /charts/{kind} [get]
func (h *ChartHandler) Get(c *gin.Context) {
	kind, ok := chartKind(c)
	if !ok {
		return
	}
	model, err := h.charts.Render(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetTransitioning(c, model.Transitioning)
	response.JSON(c, http.StatusOK, model, middleware.ExtractMeta(c))
}

// PointerEnter godoc
// @Summary Move the pointer onto a chart element
// @Tags Charts
// @Accept json
// @Produce json
// @Param kind path string true "sankey, bar, pie or cgpa"
// @Param payload body dto.PointerRequest true "Element and pointer"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /charts/{kind}/pointer-enter [post]
func (h *ChartHandler) PointerEnter(c *gin.Context) {
	kind, ok := chartKind(c)
	if !ok {
		return
	}
	var req dto.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pointer payload"))
		return
	}
	if err := service.ValidateRequest(h.validate, req); err != nil {
		response.Error(c, err)
		return
	}
	snap, err := h.charts.PointerEnter(c.Request.Context(), kind, req.ElementID, models.Pointer{X: req.X, Y: req.Y})
	respondSnapshot(c, snap, err)
}

// PointerLeave godoc
// @Summary Move the pointer off a chart element
// @Tags Charts
// @Produce json
// @Param kind path string true "sankey, bar, pie or cgpa"
// @Param elementId query string false "Element left; empty leaves any"
// @Success 200 {object} response.Envelope
// @Router /charts/{kind}/pointer-leave [post]
func (h *ChartHandler) PointerLeave(c *gin.Context) {
	kind, ok := chartKind(c)
	if !ok {
		return
	}
	snap, err := h.charts.PointerLeave(kind, strings.TrimSpace(c.Query("elementId")))
	respondSnapshot(c, snap, err)
}

// Click godoc
// @Summary Click a chart element
// @Tags Charts
// @Accept json
// @Produce json
// @Param kind path string true "sankey, bar, pie or cgpa"
// @Param payload body dto.ClickRequest true "Element"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /charts/{kind}/click [post]
func (h *ChartHandler) Click(c *gin.Context) {
	kind, ok := chartKind(c)
	if !ok {
		return
	}
	var req dto.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid click payload"))
		return
	}
	if err := service.ValidateRequest(h.validate, req); err != nil {
		response.Error(c, err)
		return
	}
	snap, err := h.charts.Click(c.Request.Context(), kind, req.ElementID)
	respondSnapshot(c, snap, err)
}

// Export godoc
// @Summary Download a chart as a table
// @Tags Charts
// @Produce text/csv
// @Produce application/pdf
// @Param kind path string true "sankey, bar, pie or cgpa"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /charts/{kind}/export [get]
func (h *ChartHandler) Export(c *gin.Context) {
	kind, ok := chartKind(c)
	if !ok {
		return
	}
	if h.exports == nil {
		response.Error(c, appErrors.ErrExportDisabled)
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	result, err := h.exports.Export(c.Request.Context(), kind, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

func chartKind(c *gin.Context) (models.ChartKind, bool) {
	kind, ok := models.ParseChartKind(strings.ToLower(c.Param("kind")))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown chart "+c.Param("kind")))
		return "", false
	}
	return kind, true
}

func respondSnapshot(c *gin.Context, snap models.DashboardSnapshot, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetDashboardVersion(c, snap.Version)
	response.JSON(c, http.StatusOK, dashboardResponse(snap), middleware.ExtractMeta(c))
}
