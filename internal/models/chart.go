package models

// SankeyNode is one of the thirteen fixed flow nodes.
type SankeyNode struct {
	Index    int
	Name     string
	Category Dimension
	Value    int
	Selected bool
}

// SankeyLink is an accumulated edge between two node indexes.
type SankeyLink struct {
	Source int
	Target int
	Value  int
}

// SankeyGraph is the age → condition → treatment flow.
type SankeyGraph struct {
	Nodes []SankeyNode
	Links []SankeyLink
}

// BarBucket counts treatment outcomes of one age bucket.
type BarBucket struct {
	AgeGroup        AgeGroup
	SoughtTreatment int
	NoTreatment     int
	Total           int
	Selected        bool
}

// BarSummary is the stacked bar chart. Visibility and YMax follow the
// treatment dimension.
type BarSummary struct {
	Buckets         []BarBucket
	ShowSought      bool
	ShowNoTreatment bool
	YMax            int
}

// PieSegment is one condition slice of a gender pie.
type PieSegment struct {
	Condition  Condition
	Count      int
	Percentage float64
	Selected   bool
}

// PieGroup is the pie of one gender.
type PieGroup struct {
	Gender   Gender
	Total    int
	Segments []PieSegment
}

// PieSummary holds the male and female pies in that order.
type PieSummary struct {
	Groups []PieGroup
}

// CGPABucket counts condition occurrences in one CGPA range.
type CGPABucket struct {
	Band   CGPABand
	Counts [conditionCount]int
}

// Count returns the occurrences of a condition within the band.
func (b CGPABucket) Count(c Condition) int {
	if c >= conditionCount {
		return 0
	}
	return b.Counts[c]
}

// CGPASummary lists the bands present in the data in ascending order.
type CGPASummary struct {
	Buckets []CGPABucket
}
