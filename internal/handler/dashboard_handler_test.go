package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-mental-health-api/internal/middleware"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	"github.com/noah-isme/student-mental-health-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func newDashboardRouter(t *testing.T) (*gin.Engine, *service.Dashboard) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := service.NewDashboard(service.DashboardParams{Config: service.DashboardConfig{SettleWindow: time.Hour}})
	t.Cleanup(d.Close)

	h := NewDashboardHandler(d, nil)
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.GET("/dashboard", h.Get)
	router.POST("/dashboard/selection", h.Toggle)
	router.DELETE("/dashboard/selection/:dimension", h.Clear)
	router.POST("/dashboard/node-select", h.SelectNode)
	router.POST("/dashboard/reset", h.Reset)
	router.POST("/dashboard/tags/:dimension/hover", h.HoverTag)
	router.DELETE("/dashboard/hover", h.ClearHover)
	return router, d
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestDashboardHandlerGetInitialState(t *testing.T) {
	router, _ := newDashboardRouter(t)
	rec := serve(router, http.MethodGet, "/dashboard", "")

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "sankey", envelope.Data["activeView"])
	assert.Equal(t, "Student Mental Health Overview: Sankey Diagram", envelope.Data["title"])
	assert.Equal(t, false, envelope.Data["isTransitioning"])
	assert.Empty(t, envelope.Data["tags"])
	assert.Nil(t, envelope.Data["tooltip"])
	controls := envelope.Data["controls"].(map[string]interface{})
	assert.Equal(t, false, controls["showReset"])
	assert.Equal(t, false, controls["showBackToOverview"])
	assert.Len(t, envelope.Data["mountedCharts"], 4)
}

func TestDashboardHandlerToggleRoutesAndTags(t *testing.T) {
	router, _ := newDashboardRouter(t)
	rec := serve(router, http.MethodPost, "/dashboard/selection", `{"dimension":"condition","value":"Panic Attack"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "pie", envelope.Data["activeView"])
	assert.Equal(t, "Mental Health Condition Distribution", envelope.Data["title"])
	assert.Equal(t, true, envelope.Data["isTransitioning"])
	filters := envelope.Data["filters"].(map[string]interface{})
	assert.Equal(t, "Panic Attack", filters["selectedCondition"])
	assert.Nil(t, filters["selectedAge"])

	tags := envelope.Data["tags"].([]interface{})
	require.Len(t, tags, 1)
	tag := tags[0].(map[string]interface{})
	assert.Equal(t, "Condition", tag["label"])
	assert.Equal(t, "Panic Attack", tag["value"])
	controls := envelope.Data["controls"].(map[string]interface{})
	assert.Equal(t, true, controls["showReset"])
	assert.Equal(t, true, controls["showBackToOverview"])
	assert.Equal(t, float64(1), envelope.Meta["dashboard_version"])
}

func TestDashboardHandlerToggleValidation(t *testing.T) {
	router, d := newDashboardRouter(t)

	rec := serve(router, http.MethodPost, "/dashboard/selection", `{"dimension":"gender","value":"Male"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/dashboard/selection", `{"dimension":"age","value":"99"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error["code"])

	rec = serve(router, http.MethodPost, "/dashboard/selection", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, d.Snapshot().Version)
}

func TestDashboardHandlerClearAndReset(t *testing.T) {
	router, d := newDashboardRouter(t)
	_, err := d.Toggle(models.DimensionAge, "21")
	require.NoError(t, err)
	_, err = d.Toggle(models.DimensionTreatment, "No Treatment")
	require.NoError(t, err)

	rec := serve(router, http.MethodDelete, "/dashboard/selection/age", "")
	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "bar", envelope.Data["activeView"])
	assert.Len(t, envelope.Data["tags"], 1)

	rec = serve(router, http.MethodDelete, "/dashboard/selection/gender", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/dashboard/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	envelope = decodeEnvelope(t, rec)
	assert.Equal(t, "sankey", envelope.Data["activeView"])
	assert.Empty(t, envelope.Data["tags"])
}

func TestDashboardHandlerNodeSelect(t *testing.T) {
	router, d := newDashboardRouter(t)
	rec := serve(router, http.MethodPost, "/dashboard/node-select", `{"name":"24+","category":"age"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.AgeGroup24Plus, d.Snapshot().Filter.Age)
	assert.Equal(t, models.ViewBar, d.Snapshot().View.Active)
}

func TestDashboardHandlerTagHoverTooltip(t *testing.T) {
	router, d := newDashboardRouter(t)

	rec := serve(router, http.MethodPost, "/dashboard/tags/age/hover", `{"x":100,"y":50}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)
	rec = serve(router, http.MethodPost, "/dashboard/tags/age/hover", `{"x":100,"y":50}`)
	require.Equal(t, http.StatusOK, rec.Code)

	tooltip := decodeEnvelope(t, rec).Data["tooltip"].(map[string]interface{})
	assert.Equal(t, "19", tooltip["title"])
	assert.Equal(t, float64(110), tooltip["left"])
	assert.Equal(t, float64(40), tooltip["top"])
	assert.Empty(t, tooltip["rows"])

	rec = serve(router, http.MethodDelete, "/dashboard/hover", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeEnvelope(t, rec).Data["tooltip"])
}

// streamRecorder satisfies the close notifier gin streams require.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestDashboardHandlerEventsSendsCurrentSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	d := service.NewDashboard(service.DashboardParams{Config: service.DashboardConfig{SettleWindow: time.Hour}})
	defer d.Close()
	_, err := d.Toggle(models.DimensionCondition, "Depression")
	require.NoError(t, err)

	h := NewDashboardHandler(d, nil)
	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	c, _ := gin.CreateTestContext(rec)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/events", nil).WithContext(ctx)

	h.Events(c)

	body := rec.Body.String()
	assert.Contains(t, body, "event:snapshot")
	assert.Contains(t, body, `"activeView":"pie"`)
}
