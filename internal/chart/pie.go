package chart

import (
	"fmt"
	"strings"

	"github.com/noah-isme/student-mental-health-api/internal/aggregate"
	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
)

const pieTitle = "Mental Health Issues Distribution Across Gender"

// NewPie constructs the condition by gender adapter.
func NewPie(params Params) *Adapter {
	opts := aggregate.PieOptions{KeepEmpty: params.KeepEmptySlices}
	a := newAdapter(models.ChartPie, func(records []models.StudentRecord, filter models.FilterState) *dto.ChartModel {
		return buildPie(records, filter, opts)
	}, params)
	if opts.KeepEmpty {
		a.variant = string(models.ChartPie) + "+keep"
	}
	return a
}

func buildPie(records []models.StudentRecord, filter models.FilterState, opts aggregate.PieOptions) *dto.ChartModel {
	summary := aggregate.Pie(records, filter, opts)
	chart := &dto.PieChart{Groups: make([]dto.PieGroup, 0, len(summary.Groups))}
	for _, group := range summary.Groups {
		out := dto.PieGroup{
			Gender: group.Gender.String(),
			Total:  group.Total,
			Slices: make([]dto.ChartElement, 0, len(group.Segments)),
		}
		for _, segment := range group.Segments {
			pct := segment.Percentage
			out.Slices = append(out.Slices, dto.ChartElement{
				ID:         SliceID(group.Gender, segment.Condition),
				Kind:       string(models.ElementPie),
				Name:       segment.Condition.String(),
				Category:   group.Gender.String(),
				Value:      float64(segment.Count),
				Percentage: &pct,
				Color:      segment.Condition.Color(),
				Selected:   segment.Selected,
			})
		}
		chart.Groups = append(chart.Groups, out)
	}

	legend := make([]dto.LegendItem, 0, len(models.Conditions))
	for _, c := range models.Conditions {
		legend = append(legend, dto.LegendItem{Label: c.String(), Color: c.Color()})
	}
	return &dto.ChartModel{
		Kind:    string(models.ChartPie),
		Title:   pieTitle,
		Filters: dto.NewFilters(filter),
		Legend:  legend,
		Pie:     chart,
	}
}

// SliceID is the element id of a pie slice.
func SliceID(gender models.Gender, c models.Condition) string {
	return fmt.Sprintf("pie-%s-%d", strings.ToLower(gender.String()), c.Index())
}
