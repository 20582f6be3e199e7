package aggregate

import "github.com/noah-isme/student-mental-health-api/internal/models"

// CGPA counts condition occurrences per CGPA range for records passing the
// age dimension. Ranges outside the fixed list are dropped, as are ranges
// with no records.
func CGPA(records []models.StudentRecord, filter models.FilterState) models.CGPASummary {
	buckets := make(map[models.CGPABand]*models.CGPABucket)
	for _, record := range records {
		band := record.Band()
		if band == models.CGPABandNone || !filter.MatchesAge(record.Age) {
			continue
		}
		bucket, ok := buckets[band]
		if !ok {
			bucket = &models.CGPABucket{Band: band}
			buckets[band] = bucket
		}
		for _, c := range models.Conditions {
			if record.HasCondition(c) {
				bucket.Counts[c]++
			}
		}
	}

	summary := models.CGPASummary{Buckets: []models.CGPABucket{}}
	for _, band := range models.CGPABands {
		if bucket, ok := buckets[band]; ok {
			summary.Buckets = append(summary.Buckets, *bucket)
		}
	}
	return summary
}
