package aggregate

import (
	"sort"

	"github.com/noah-isme/student-mental-health-api/internal/models"
)

// PieOptions tunes the pie aggregation.
type PieOptions struct {
	// KeepEmpty retains zero count categories instead of dropping them.
	KeepEmpty bool
}

// Pie groups records by gender, restricted to the selected age bucket, and
// computes per condition counts and shares of the group. Categories are not
// mutually exclusive, so shares may add up past 100. Segments are ordered by
// ascending percentage; ties keep graph order.
func Pie(records []models.StudentRecord, filter models.FilterState, opts PieOptions) models.PieSummary {
	summary := models.PieSummary{Groups: make([]models.PieGroup, 0, len(models.Genders))}
	for _, gender := range models.Genders {
		summary.Groups = append(summary.Groups, pieGroup(records, filter, gender, opts))
	}
	return summary
}

func pieGroup(records []models.StudentRecord, filter models.FilterState, gender models.Gender, opts PieOptions) models.PieGroup {
	group := models.PieGroup{Gender: gender, Segments: []models.PieSegment{}}
	counts := make(map[models.Condition]int, len(models.Conditions))
	for _, record := range records {
		if record.GenderGroup() != gender || !filter.MatchesAge(record.Age) {
			continue
		}
		group.Total++
		for _, c := range models.Conditions {
			if record.HasCondition(c) {
				counts[c]++
			}
		}
	}

	for _, c := range models.Conditions {
		count := counts[c]
		if count == 0 && !opts.KeepEmpty {
			continue
		}
		group.Segments = append(group.Segments, models.PieSegment{
			Condition:  c,
			Count:      count,
			Percentage: Percentage(count, group.Total),
			Selected:   filter.Condition == c,
		})
	}
	sort.SliceStable(group.Segments, func(i, j int) bool {
		return group.Segments[i].Percentage < group.Segments[j].Percentage
	})
	return group
}

// Percentage returns count/total*100, or 0 when total is zero.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
