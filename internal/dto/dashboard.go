package dto

import (
	"fmt"

	"github.com/noah-isme/student-mental-health-api/internal/models"
)

const (
	tooltipOffsetX = 10
	tooltipOffsetY = -10
)

// Filters mirrors the filter state with null for unset dimensions.
type Filters struct {
	SelectedAge       *string `json:"selectedAge"`
	SelectedCondition *string `json:"selectedCondition"`
	SelectedTreatment *string `json:"selectedTreatment"`
}

// NewFilters converts a filter state.
func NewFilters(f models.FilterState) Filters {
	ptr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return Filters{
		SelectedAge:       ptr(f.Value(models.DimensionAge)),
		SelectedCondition: ptr(f.Value(models.DimensionCondition)),
		SelectedTreatment: ptr(f.Value(models.DimensionTreatment)),
	}
}

// FilterTag is a removable chip for an active dimension.
type FilterTag struct {
	Dimension string `json:"dimension"`
	Label     string `json:"label"`
	Value     string `json:"value"`
}

// Controls says which header buttons are visible.
type Controls struct {
	ShowReset          bool `json:"showReset"`
	ShowBackToOverview bool `json:"showBackToOverview"`
}

// TooltipRow is a label/value line of the tooltip body.
type TooltipRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tooltip is the pointer anchored tooltip.
type Tooltip struct {
	Title string                `json:"title"`
	Rows  []TooltipRow          `json:"rows"`
	Left  float64               `json:"left"`
	Top   float64               `json:"top"`
	Owner string                `json:"owner,omitempty"`
	Hover models.HoveredElement `json:"element"`
}

// NewTooltip renders the tooltip for a hover state, or nil when nothing is hovered.
func NewTooltip(h models.HoverState) *Tooltip {
	el := h.Element
	if el == nil {
		return nil
	}
	tip := &Tooltip{
		Title: el.Name,
		Rows:  []TooltipRow{},
		Left:  el.Pointer.X + tooltipOffsetX,
		Top:   el.Pointer.Y + tooltipOffsetY,
		Owner: string(h.Owner),
		Hover: *el,
	}
	if el.Value != 0 {
		tip.Rows = append(tip.Rows, TooltipRow{Label: "Count", Value: formatCount(el.Value)})
	}
	if el.Percentage != nil && *el.Percentage != 0 {
		tip.Rows = append(tip.Rows, TooltipRow{Label: "Percentage", Value: fmt.Sprintf("%.1f%%", *el.Percentage)})
	}
	return tip
}

func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// DashboardResponse is the full dashboard state as rendered by the host UI.
type DashboardResponse struct {
	ID              string      `json:"id"`
	Version         uint64      `json:"version"`
	Title           string      `json:"title"`
	Filters         Filters     `json:"filters"`
	ActiveView      string      `json:"activeView"`
	IsTransitioning bool        `json:"isTransitioning"`
	Tags            []FilterTag `json:"tags"`
	Controls        Controls    `json:"controls"`
	Tooltip         *Tooltip    `json:"tooltip"`
	MountedCharts   []string    `json:"mountedCharts"`
}

// NewDashboardResponse renders a snapshot. title and mounted come from the view router.
func NewDashboardResponse(snap models.DashboardSnapshot, title string, mounted []models.ChartKind) DashboardResponse {
	resp := DashboardResponse{
		ID:              snap.ID,
		Version:         snap.Version,
		Title:           title,
		Filters:         NewFilters(snap.Filter),
		ActiveView:      string(snap.View.Active),
		IsTransitioning: snap.View.Transitioning,
		Tags:            []FilterTag{},
		Tooltip:         NewTooltip(snap.Hover),
		MountedCharts:   make([]string, 0, len(mounted)),
	}
	for _, d := range models.Dimensions {
		if value := snap.Filter.Value(d); value != "" {
			resp.Tags = append(resp.Tags, FilterTag{Dimension: string(d), Label: d.Label(), Value: value})
		}
	}
	resp.Controls = Controls{
		ShowReset:          len(resp.Tags) > 0,
		ShowBackToOverview: snap.View.Active != models.ViewSankey,
	}
	for _, kind := range mounted {
		resp.MountedCharts = append(resp.MountedCharts, string(kind))
	}
	return resp
}

// ToggleSelectionRequest selects or deselects a value on one dimension.
type ToggleSelectionRequest struct {
	Dimension string `json:"dimension" validate:"required,dimension"`
	Value     string `json:"value" validate:"required"`
}

// NodeSelectRequest mirrors a Sankey node click.
type NodeSelectRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required,dimension"`
}

// PointerRequest carries a pointer event over a chart element.
type PointerRequest struct {
	ElementID string  `json:"elementId" validate:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// ClickRequest carries a click on a chart element.
type ClickRequest struct {
	ElementID string `json:"elementId" validate:"required"`
}

// TagHoverRequest carries the pointer over a filter chip.
type TagHoverRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
