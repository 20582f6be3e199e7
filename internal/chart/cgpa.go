package chart

import (
	"fmt"

	"github.com/noah-isme/student-mental-health-api/internal/aggregate"
	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
)

const cgpaTitle = "Mental Health Issues Distribution Across CGPA Ranges"

// NewCGPA constructs the condition by CGPA range adapter.
func NewCGPA(params Params) *Adapter {
	return newAdapter(models.ChartCGPA, buildCGPA, params)
}

func buildCGPA(records []models.StudentRecord, filter models.FilterState) *dto.ChartModel {
	summary := aggregate.CGPA(records, filter)
	chart := &dto.CGPAChart{
		Series: make([]string, 0, len(models.Conditions)),
		Groups: make([]dto.CGPAGroup, 0, len(summary.Buckets)),
	}
	legend := make([]dto.LegendItem, 0, len(models.Conditions))
	for _, c := range models.Conditions {
		chart.Series = append(chart.Series, c.String())
		legend = append(legend, dto.LegendItem{Label: c.String(), Color: c.SeriesColor()})
	}
	for _, bucket := range summary.Buckets {
		group := dto.CGPAGroup{Band: bucket.Band.String(), Bars: make([]dto.ChartElement, 0, len(models.Conditions))}
		for _, c := range models.Conditions {
			group.Bars = append(group.Bars, dto.ChartElement{
				ID:       CGPABarID(bucket.Band, c),
				Kind:     string(models.ElementBar),
				Name:     fmt.Sprintf("%s: %s", bucket.Band, c),
				Category: string(models.DimensionCondition),
				Value:    float64(bucket.Count(c)),
				Color:    c.SeriesColor(),
				Selected: filter.Condition == c,
			})
		}
		chart.Groups = append(chart.Groups, group)
	}
	return &dto.ChartModel{
		Kind:    string(models.ChartCGPA),
		Title:   cgpaTitle,
		Filters: dto.NewFilters(filter),
		Legend:  legend,
		CGPA:    chart,
	}
}

// CGPABarID is the element id of one CGPA bar.
func CGPABarID(band models.CGPABand, c models.Condition) string {
	return fmt.Sprintf("cgpa-%d-%d", int(band)-1, c.Index())
}
