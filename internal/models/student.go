package models

// Source column headers, matched exactly after trimming.
const (
	ColumnAge         = "Age"
	ColumnGender      = "Choose your gender"
	ColumnCourse      = "What is your course?"
	ColumnYearOfStudy = "Your current year of Study"
	ColumnCGPA        = "What is your CGPA?"
	ColumnDepression  = "Do you have Depression?"
	ColumnAnxiety     = "Do you have Anxiety?"
	ColumnPanicAttack = "Do you have Panic attack?"
	ColumnTreatment   = "Did you seek any specialist for a treatment?"
)

// RequiredColumns are the headers the aggregations read.
var RequiredColumns = []string{
	ColumnAge,
	ColumnGender,
	ColumnCGPA,
	ColumnDepression,
	ColumnAnxiety,
	ColumnPanicAttack,
	ColumnTreatment,
}

const answerYes = "Yes"

// StudentRecord is one survey row. Values are kept as read (trimmed) so that
// malformed cells stay visible to the aggregations that decide to skip them.
type StudentRecord struct {
	Age         string `json:"age"`
	Gender      string `json:"gender"`
	Course      string `json:"course,omitempty"`
	YearOfStudy string `json:"year_of_study,omitempty"`
	CGPA        string `json:"cgpa"`
	Depression  string `json:"depression"`
	Anxiety     string `json:"anxiety"`
	PanicAttack string `json:"panic_attack"`
	Treatment   string `json:"treatment"`
}

// AgeGroup classifies the raw age cell.
func (r StudentRecord) AgeGroup() AgeGroup {
	return ClassifyAge(r.Age)
}

// GenderGroup classifies the raw gender cell.
func (r StudentRecord) GenderGroup() Gender {
	return ParseGender(r.Gender)
}

// Band classifies the raw CGPA cell.
func (r StudentRecord) Band() CGPABand {
	return ParseCGPABand(r.CGPA)
}

// HasCondition reports whether the record belongs to the given condition
// node. No Mental Issues holds when none of the three flags is "Yes".
func (r StudentRecord) HasCondition(c Condition) bool {
	switch c {
	case ConditionDepression:
		return r.Depression == answerYes
	case ConditionAnxiety:
		return r.Anxiety == answerYes
	case ConditionPanicAttack:
		return r.PanicAttack == answerYes
	case ConditionNoMentalIssues:
		return !r.HasAnyCondition()
	}
	return false
}

// HasAnyCondition reports whether at least one condition flag is "Yes".
func (r StudentRecord) HasAnyCondition() bool {
	return r.Depression == answerYes || r.Anxiety == answerYes || r.PanicAttack == answerYes
}

// Conditions returns every condition node the record flows through. A record
// with several "Yes" flags fans out to each of them; a record with none maps
// to No Mental Issues alone.
func (r StudentRecord) Conditions() []Condition {
	out := make([]Condition, 0, 3)
	for _, c := range []Condition{ConditionDepression, ConditionAnxiety, ConditionPanicAttack} {
		if r.HasCondition(c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = append(out, ConditionNoMentalIssues)
	}
	return out
}

// SoughtTreatment reports whether the treatment flag is "Yes".
func (r StudentRecord) SoughtTreatment() bool {
	return r.Treatment == answerYes
}

// TreatmentFor returns the treatment node a condition edge flows into.
// Records without any condition always flow into No Treatment.
func (r StudentRecord) TreatmentFor(c Condition) TreatmentStatus {
	if c == ConditionNoMentalIssues || !r.SoughtTreatment() {
		return TreatmentNotSought
	}
	return TreatmentSought
}
