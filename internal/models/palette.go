package models

import "fmt"

const (
	ageColorFrom = 0x1a4c7c
	ageColorTo   = 0x90caf9
)

var ageGroupColors = func() [ageGroupCount]string {
	var colors [ageGroupCount]string
	last := len(AgeGroups) - 1
	for _, group := range AgeGroups {
		colors[group] = interpolateRGB(ageColorFrom, ageColorTo, float64(group.Index())/float64(last))
	}
	return colors
}()

var conditionColors = [conditionCount]string{
	ConditionNone:           "",
	ConditionDepression:     "#FF69B4",
	ConditionAnxiety:        "#FFA500",
	ConditionPanicAttack:    "#9370DB",
	ConditionNoMentalIssues: "#808080",
}

var treatmentColors = [treatmentCount]string{
	TreatmentNone:      "",
	TreatmentSought:    "#00C853",
	TreatmentNotSought: "#FF5252",
}

// cgpaSeriesColors colour the per condition bars of the CGPA chart.
var cgpaSeriesColors = [conditionCount]string{
	ConditionNone:           "",
	ConditionDepression:     "#87CEFA",
	ConditionAnxiety:        "#9370DB",
	ConditionPanicAttack:    "#FF6347",
	ConditionNoMentalIssues: "#32CD32",
}

// Color returns the sequential blue shade of the bucket.
func (a AgeGroup) Color() string {
	if a >= ageGroupCount {
		return ""
	}
	return ageGroupColors[a]
}

// Color returns the node and slice colour of the condition.
func (c Condition) Color() string {
	if c >= conditionCount {
		return ""
	}
	return conditionColors[c]
}

// SeriesColor returns the CGPA chart bar colour of the condition.
func (c Condition) SeriesColor() string {
	if c >= conditionCount {
		return ""
	}
	return cgpaSeriesColors[c]
}

// Color returns the node and bar colour of the status.
func (t TreatmentStatus) Color() string {
	if t >= treatmentCount {
		return ""
	}
	return treatmentColors[t]
}

func interpolateRGB(from, to int, t float64) string {
	channel := func(shift uint) int {
		a := float64((from >> shift) & 0xff)
		b := float64((to >> shift) & 0xff)
		return int(a + (b-a)*t + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(16), channel(8), channel(0))
}
