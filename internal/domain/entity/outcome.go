package entity

// FieldFailure is the externally visible projection of a failing audit entry.
// JSON tags match the shape the review UI already consumes.
type FieldFailure struct {
	Field    string `json:"Field"`
	Expected string `json:"CurrentValue"`
	Observed string `json:"ERPValue"`
	Reason   string `json:"Reason"`
}

// ValidationStatus is the report persisted back into the document's JSON column.
type ValidationStatus struct {
	IsPassed     bool           `json:"isPassed"`
	FailedFields []FieldFailure `json:"FailedFields"`
}

// FillOutcome is the terminal result of one document's fill pass.
type FillOutcome struct {
	AllPassed       bool
	FailedFields    []FieldFailure
	SubmitAttempted bool
	SubmitSucceeded bool
	SubmitError     string
	DuplicateFound  bool
	DuplicateNote   string
}

func (o FillOutcome) Validation() ValidationStatus {
	return ValidationStatus{
		IsPassed:     o.AllPassed,
		FailedFields: append([]FieldFailure{}, o.FailedFields...),
	}
}
