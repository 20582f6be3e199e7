package chart

import (
	"fmt"

	"github.com/noah-isme/student-mental-health-api/internal/aggregate"
	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
)

const barTitle = "Treatment Distribution by Age Group"

// NewBar constructs the stacked treatment by age adapter.
func NewBar(params Params) *Adapter {
	return newAdapter(models.ChartBar, buildBar, params)
}

func buildBar(records []models.StudentRecord, filter models.FilterState) *dto.ChartModel {
	summary := aggregate.Bar(records, filter)
	chart := &dto.BarChart{
		Series: []string{},
		YMax:   summary.YMax,
		Groups: make([]dto.BarGroup, 0, len(summary.Buckets)),
	}
	if summary.ShowSought {
		chart.Series = append(chart.Series, models.TreatmentSought.String())
	}
	if summary.ShowNoTreatment {
		chart.Series = append(chart.Series, models.TreatmentNotSought.String())
	}
	for _, bucket := range summary.Buckets {
		group := dto.BarGroup{
			AgeGroup: bucket.AgeGroup.String(),
			Total:    bucket.Total,
			Selected: bucket.Selected,
			Bars:     []dto.ChartElement{},
		}
		if summary.ShowSought && bucket.SoughtTreatment > 0 {
			group.Bars = append(group.Bars, barElement(bucket, models.TreatmentSought, bucket.SoughtTreatment, filter))
		}
		if summary.ShowNoTreatment && bucket.NoTreatment > 0 {
			group.Bars = append(group.Bars, barElement(bucket, models.TreatmentNotSought, bucket.NoTreatment, filter))
		}
		chart.Groups = append(chart.Groups, group)
	}

	legend := make([]dto.LegendItem, 0, len(chart.Series))
	for _, t := range models.TreatmentStatuses {
		if (t == models.TreatmentSought && summary.ShowSought) || (t == models.TreatmentNotSought && summary.ShowNoTreatment) {
			legend = append(legend, dto.LegendItem{Label: t.String(), Color: t.Color()})
		}
	}
	return &dto.ChartModel{
		Kind:    string(models.ChartBar),
		Title:   barTitle,
		Filters: dto.NewFilters(filter),
		Legend:  legend,
		Bar:     chart,
	}
}

// barElement is one stacked segment. Empty segments are never drawn, so the
// share of the bucket total is always defined.
func barElement(bucket models.BarBucket, status models.TreatmentStatus, count int, filter models.FilterState) dto.ChartElement {
	pct := aggregate.Percentage(count, bucket.Total)
	return dto.ChartElement{
		ID:         BarID(bucket.AgeGroup, status),
		Kind:       string(models.ElementBar),
		Name:       bucket.AgeGroup.String(),
		Category:   status.String(),
		Value:      float64(count),
		Percentage: &pct,
		Color:      status.Color(),
		Selected:   bucket.Selected || filter.Treatment == status,
	}
}

// BarID is the element id of one bar segment.
func BarID(group models.AgeGroup, status models.TreatmentStatus) string {
	suffix := "sought"
	if status == models.TreatmentNotSought {
		suffix = "none"
	}
	return fmt.Sprintf("bar-%d-%s", group.Index(), suffix)
}
