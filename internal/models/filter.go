package models

import (
	"fmt"
	"strings"
)

// FilterState holds the three single-select dimensions. Zero values mean
// the dimension is not set; dimensions never clear each other.
type FilterState struct {
	Age       AgeGroup
	Condition Condition
	Treatment TreatmentStatus
}

// IsEmpty reports whether no dimension is set.
func (f FilterState) IsEmpty() bool {
	return f.Age == AgeGroupNone && f.Condition == ConditionNone && f.Treatment == TreatmentNone
}

// Value returns the selected display name of a dimension, or "" when unset.
func (f FilterState) Value(d Dimension) string {
	switch d {
	case DimensionAge:
		return f.Age.String()
	case DimensionCondition:
		return f.Condition.String()
	case DimensionTreatment:
		return f.Treatment.String()
	}
	return ""
}

// Toggle selects value on dimension d, or clears d when value is already selected.
func (f FilterState) Toggle(d Dimension, value string) (FilterState, error) {
	switch d {
	case DimensionAge:
		group, ok := ParseAgeGroup(value)
		if !ok {
			return f, fmt.Errorf("unknown age group %q", value)
		}
		if f.Age == group {
			f.Age = AgeGroupNone
		} else {
			f.Age = group
		}
	case DimensionCondition:
		c, ok := ParseCondition(value)
		if !ok {
			return f, fmt.Errorf("unknown condition %q", value)
		}
		if f.Condition == c {
			f.Condition = ConditionNone
		} else {
			f.Condition = c
		}
	case DimensionTreatment:
		t, ok := ParseTreatmentStatus(value)
		if !ok {
			return f, fmt.Errorf("unknown treatment status %q", value)
		}
		if f.Treatment == t {
			f.Treatment = TreatmentNone
		} else {
			f.Treatment = t
		}
	default:
		return f, fmt.Errorf("unknown dimension %q", d)
	}
	return f, nil
}

// Clear unsets dimension d regardless of its value.
func (f FilterState) Clear(d Dimension) (FilterState, error) {
	switch d {
	case DimensionAge:
		f.Age = AgeGroupNone
	case DimensionCondition:
		f.Condition = ConditionNone
	case DimensionTreatment:
		f.Treatment = TreatmentNone
	default:
		return f, fmt.Errorf("unknown dimension %q", d)
	}
	return f, nil
}

// MatchesAge reports whether a raw age cell passes the age dimension. With no
// age selected every record passes, including ones without a numeric age.
func (f FilterState) MatchesAge(raw string) bool {
	if f.Age == AgeGroupNone {
		return true
	}
	return ClassifyAge(raw) == f.Age
}

// Key is a stable string form used in cache keys.
func (f FilterState) Key() string {
	parts := make([]string, 0, len(Dimensions))
	for _, d := range Dimensions {
		parts = append(parts, string(d)+"="+f.Value(d))
	}
	return strings.Join(parts, "|")
}
