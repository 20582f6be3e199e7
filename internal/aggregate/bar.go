package aggregate

import "github.com/noah-isme/student-mental-health-api/internal/models"

// Bar counts treatment outcomes per age bucket using the same fan-out as the
// flow graph: each condition a record has adds one to the sought or the
// untreated counter, and a record without conditions adds one untreated.
// All seven buckets are returned in order, empty ones included.
func Bar(records []models.StudentRecord, filter models.FilterState) models.BarSummary {
	buckets := make([]models.BarBucket, len(models.AgeGroups))
	for i, group := range models.AgeGroups {
		buckets[i] = models.BarBucket{AgeGroup: group, Selected: filter.Age == group}
	}

	for _, record := range records {
		group := record.AgeGroup()
		if group == models.AgeGroupNone {
			continue
		}
		bucket := &buckets[group.Index()]
		for _, c := range record.Conditions() {
			if record.TreatmentFor(c) == models.TreatmentSought {
				bucket.SoughtTreatment++
			} else {
				bucket.NoTreatment++
			}
		}
	}

	summary := models.BarSummary{
		Buckets:         buckets,
		ShowSought:      filter.Treatment != models.TreatmentNotSought,
		ShowNoTreatment: filter.Treatment != models.TreatmentSought,
	}
	for i := range buckets {
		buckets[i].Total = buckets[i].SoughtTreatment + buckets[i].NoTreatment
		var height int
		switch filter.Treatment {
		case models.TreatmentSought:
			height = buckets[i].SoughtTreatment
		case models.TreatmentNotSought:
			height = buckets[i].NoTreatment
		default:
			height = buckets[i].Total
		}
		summary.YMax = max(summary.YMax, height)
	}
	return summary
}
