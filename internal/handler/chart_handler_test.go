package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	"github.com/noah-isme/student-mental-health-api/internal/service"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

type fakeChartSrv struct {
	model     *dto.ChartModel
	renderErr error
	snapshot  models.DashboardSnapshot
	eventErr  error

	lastKind    models.ChartKind
	lastElement string
	lastPointer models.Pointer
}

func (f *fakeChartSrv) Render(_ context.Context, kind models.ChartKind) (*dto.ChartModel, error) {
	f.lastKind = kind
	return f.model, f.renderErr
}

func (f *fakeChartSrv) PointerEnter(_ context.Context, kind models.ChartKind, id string, p models.Pointer) (models.DashboardSnapshot, error) {
	f.lastKind, f.lastElement, f.lastPointer = kind, id, p
	return f.snapshot, f.eventErr
}

func (f *fakeChartSrv) PointerLeave(kind models.ChartKind, id string) (models.DashboardSnapshot, error) {
	f.lastKind, f.lastElement = kind, id
	return f.snapshot, f.eventErr
}

func (f *fakeChartSrv) Click(_ context.Context, kind models.ChartKind, id string) (models.DashboardSnapshot, error) {
	f.lastKind, f.lastElement = kind, id
	return f.snapshot, f.eventErr
}

type fakeExporter struct {
	result *service.ExportResult
	err    error
	format service.ExportFormat
}

func (f *fakeExporter) Export(_ context.Context, _ models.ChartKind, format service.ExportFormat) (*service.ExportResult, error) {
	f.format = format
	return f.result, f.err
}

func newChartRouter(charts chartService, exports chartExporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChartHandler(charts, exports, nil)
	router := gin.New()
	router.GET("/charts/:kind", h.Get)
	router.POST("/charts/:kind/pointer-enter", h.PointerEnter)
	router.POST("/charts/:kind/pointer-leave", h.PointerLeave)
	router.POST("/charts/:kind/click", h.Click)
	router.GET("/charts/:kind/export", h.Export)
	return router
}

func TestChartHandlerGet(t *testing.T) {
	charts := &fakeChartSrv{model: &dto.ChartModel{Kind: "bar", Title: "Treatment Distribution by Age Group", Transitioning: true}}
	router := newChartRouter(charts, nil)

	rec := serve(router, http.MethodGet, "/charts/BAR", "")
	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Treatment Distribution by Age Group", envelope.Data["title"])
	assert.Equal(t, models.ChartBar, charts.lastKind)

	rec = serve(router, http.MethodGet, "/charts/radar", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartHandlerMapsServiceErrors(t *testing.T) {
	router := newChartRouter(&fakeChartSrv{renderErr: appErrors.ErrChartNotMounted}, nil)
	rec := serve(router, http.MethodGet, "/charts/pie", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CHART_NOT_MOUNTED", decodeEnvelope(t, rec).Error["code"])

	router = newChartRouter(&fakeChartSrv{renderErr: appErrors.ErrDatasetUnavailable}, nil)
	rec = serve(router, http.MethodGet, "/charts/pie", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestChartHandlerPointerEvents(t *testing.T) {
	pct := 25.0
	charts := &fakeChartSrv{snapshot: models.DashboardSnapshot{
		Version: 3,
		View:    models.ViewState{Active: models.ViewSankey},
		Hover: models.HoverState{Owner: models.ChartPie, Element: &models.HoveredElement{
			Kind: models.ElementPie, Name: "Anxiety", Value: 5, Percentage: &pct, Pointer: models.Pointer{X: 20, Y: 30},
		}},
	}}
	router := newChartRouter(charts, nil)

	rec := serve(router, http.MethodPost, "/charts/pie/pointer-enter", `{"elementId":"pie-male-1","x":20,"y":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pie-male-1", charts.lastElement)
	assert.Equal(t, models.Pointer{X: 20, Y: 30}, charts.lastPointer)

	tooltip := decodeEnvelope(t, rec).Data["tooltip"].(map[string]interface{})
	rows := tooltip["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]interface{}{"label": "Count", "value": "5"}, rows[0])
	assert.Equal(t, map[string]interface{}{"label": "Percentage", "value": "25.0%"}, rows[1])
	assert.Equal(t, "pie", tooltip["owner"])

	rec = serve(router, http.MethodPost, "/charts/pie/pointer-enter", `{"x":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/charts/pie/pointer-leave?elementId=pie-male-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pie-male-1", charts.lastElement)
}

func TestChartHandlerClick(t *testing.T) {
	charts := &fakeChartSrv{eventErr: appErrors.ErrNotSelectable}
	router := newChartRouter(charts, nil)

	rec := serve(router, http.MethodPost, "/charts/bar/click", `{"elementId":"bar-1-sought"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NOT_SELECTABLE", decodeEnvelope(t, rec).Error["code"])
}

func TestChartHandlerExport(t *testing.T) {
	router := newChartRouter(&fakeChartSrv{}, nil)
	rec := serve(router, http.MethodGet, "/charts/bar/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exporter := &fakeExporter{result: &service.ExportResult{Filename: "bar.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.3")}}
	router = newChartRouter(&fakeChartSrv{}, exporter)
	rec = serve(router, http.MethodGet, "/charts/bar/export?format=PDF", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatPDF, exporter.format)
	assert.Equal(t, `attachment; filename="bar.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
