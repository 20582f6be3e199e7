package models

import (
	"strconv"
	"strings"
)

// Dimension names one of the three independent filter axes.
type Dimension string

const (
	DimensionAge       Dimension = "age"
	DimensionCondition Dimension = "condition"
	DimensionTreatment Dimension = "treatment"
)

// Dimensions lists the filter axes in display order.
var Dimensions = []Dimension{DimensionAge, DimensionCondition, DimensionTreatment}

// ParseDimension resolves a dimension from its wire name.
func ParseDimension(raw string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(raw)))
	return d, d.Valid()
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionAge, DimensionCondition, DimensionTreatment:
		return true
	}
	return false
}

// Label is the human readable tag label.
func (d Dimension) Label() string {
	switch d {
	case DimensionAge:
		return "Age"
	case DimensionCondition:
		return "Condition"
	case DimensionTreatment:
		return "Treatment"
	}
	return ""
}

// AgeGroup is the seven bucket age classification. The zero value means no group.
type AgeGroup uint8

const (
	AgeGroupNone AgeGroup = iota
	AgeGroup18OrYounger
	AgeGroup19
	AgeGroup20
	AgeGroup21
	AgeGroup22
	AgeGroup23
	AgeGroup24Plus

	ageGroupCount
)

// AgeGroups lists every bucket in ascending order.
var AgeGroups = []AgeGroup{
	AgeGroup18OrYounger,
	AgeGroup19,
	AgeGroup20,
	AgeGroup21,
	AgeGroup22,
	AgeGroup23,
	AgeGroup24Plus,
}

var ageGroupNames = [ageGroupCount]string{
	AgeGroupNone:        "",
	AgeGroup18OrYounger: "18 or younger",
	AgeGroup19:          "19",
	AgeGroup20:          "20",
	AgeGroup21:          "21",
	AgeGroup22:          "22",
	AgeGroup23:          "23",
	AgeGroup24Plus:      "24+",
}

func (a AgeGroup) String() string {
	if a >= ageGroupCount {
		return ""
	}
	return ageGroupNames[a]
}

// Index is the zero based position of the bucket within AgeGroups, or -1.
func (a AgeGroup) Index() int {
	if a == AgeGroupNone || a >= ageGroupCount {
		return -1
	}
	return int(a) - 1
}

// ParseAgeGroup resolves a bucket from its display name.
func ParseAgeGroup(name string) (AgeGroup, bool) {
	name = strings.TrimSpace(name)
	for _, group := range AgeGroups {
		if ageGroupNames[group] == name {
			return group, true
		}
	}
	return AgeGroupNone, false
}

// ClassifyAge buckets a raw age cell. Only the leading integer is considered,
// so "19.5" lands in 19. Cells without a leading integer have no group.
func ClassifyAge(raw string) AgeGroup {
	age, ok := leadingInt(raw)
	if !ok {
		return AgeGroupNone
	}
	switch {
	case age <= 18:
		return AgeGroup18OrYounger
	case age == 19:
		return AgeGroup19
	case age == 20:
		return AgeGroup20
	case age == 21:
		return AgeGroup21
	case age == 22:
		return AgeGroup22
	case age == 23:
		return AgeGroup23
	default:
		return AgeGroup24Plus
	}
}

func leadingInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Condition is a mental health node of the flow graph. The zero value means none.
type Condition uint8

const (
	ConditionNone Condition = iota
	ConditionDepression
	ConditionAnxiety
	ConditionPanicAttack
	ConditionNoMentalIssues

	conditionCount
)

// Conditions lists the four categories in graph order.
var Conditions = []Condition{
	ConditionDepression,
	ConditionAnxiety,
	ConditionPanicAttack,
	ConditionNoMentalIssues,
}

var conditionNames = [conditionCount]string{
	ConditionNone:           "",
	ConditionDepression:     "Depression",
	ConditionAnxiety:        "Anxiety",
	ConditionPanicAttack:    "Panic Attack",
	ConditionNoMentalIssues: "No Mental Issues",
}

func (c Condition) String() string {
	if c >= conditionCount {
		return ""
	}
	return conditionNames[c]
}

// Index is the zero based position within Conditions, or -1.
func (c Condition) Index() int {
	if c == ConditionNone || c >= conditionCount {
		return -1
	}
	return int(c) - 1
}

// ParseCondition resolves a condition from its display name.
func ParseCondition(name string) (Condition, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Conditions {
		if conditionNames[c] == name {
			return c, true
		}
	}
	return ConditionNone, false
}

// TreatmentStatus is whether a student sought specialist treatment. The zero value means none.
type TreatmentStatus uint8

const (
	TreatmentNone TreatmentStatus = iota
	TreatmentSought
	TreatmentNotSought

	treatmentCount
)

// TreatmentStatuses lists both statuses in graph order.
var TreatmentStatuses = []TreatmentStatus{TreatmentSought, TreatmentNotSought}

var treatmentNames = [treatmentCount]string{
	TreatmentNone:      "",
	TreatmentSought:    "Sought Treatment",
	TreatmentNotSought: "No Treatment",
}

func (t TreatmentStatus) String() string {
	if t >= treatmentCount {
		return ""
	}
	return treatmentNames[t]
}

// Index is the zero based position within TreatmentStatuses, or -1.
func (t TreatmentStatus) Index() int {
	if t == TreatmentNone || t >= treatmentCount {
		return -1
	}
	return int(t) - 1
}

// ParseTreatmentStatus resolves a status from its display name.
func ParseTreatmentStatus(name string) (TreatmentStatus, bool) {
	name = strings.TrimSpace(name)
	for _, t := range TreatmentStatuses {
		if treatmentNames[t] == name {
			return t, true
		}
	}
	return TreatmentNone, false
}

// Gender groups pie chart slices.
type Gender uint8

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale

	genderCount
)

// Genders lists the pie groups in display order.
var Genders = []Gender{GenderMale, GenderFemale}

var genderNames = [genderCount]string{
	GenderUnknown: "",
	GenderMale:    "Male",
	GenderFemale:  "Female",
}

func (g Gender) String() string {
	if g >= genderCount {
		return ""
	}
	return genderNames[g]
}

// ParseGender matches the trimmed cell exactly; anything else is unknown.
func ParseGender(raw string) Gender {
	raw = strings.TrimSpace(raw)
	for _, g := range Genders {
		if genderNames[g] == raw {
			return g
		}
	}
	return GenderUnknown
}

// CGPABand is one of the fixed CGPA ranges reported by the survey.
type CGPABand uint8

const (
	CGPABandNone CGPABand = iota
	CGPABandBelow2
	CGPABand200To249
	CGPABand250To299
	CGPABand300To349
	CGPABand350To400

	cgpaBandCount
)

// CGPABands lists the ranges in ascending order.
var CGPABands = []CGPABand{
	CGPABandBelow2,
	CGPABand200To249,
	CGPABand250To299,
	CGPABand300To349,
	CGPABand350To400,
}

var cgpaBandNames = [cgpaBandCount]string{
	CGPABandNone:     "",
	CGPABandBelow2:   "0 - 1.99",
	CGPABand200To249: "2.00 - 2.49",
	CGPABand250To299: "2.50 - 2.99",
	CGPABand300To349: "3.00 - 3.49",
	CGPABand350To400: "3.50 - 4.00",
}

func (b CGPABand) String() string {
	if b >= cgpaBandCount {
		return ""
	}
	return cgpaBandNames[b]
}

// ParseCGPABand matches the trimmed cell against the known ranges.
func ParseCGPABand(raw string) CGPABand {
	raw = strings.TrimSpace(raw)
	for _, b := range CGPABands {
		if cgpaBandNames[b] == raw {
			return b
		}
	}
	return CGPABandNone
}
