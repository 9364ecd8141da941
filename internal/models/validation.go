package models

// RowStatus is the validation verdict for one row
type RowStatus string

const (
	RowPass RowStatus = "pass"
	RowWarn RowStatus = "warn"
	RowFail RowStatus = "fail"
)

// ValidationError is a per-field, per-row validation failure. Collected,
// never returned as a Go error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ValidationWarning is a non-blocking per-field finding. Suggestion carries
// a corrected value when one is known (e.g. a casing fix).
type ValidationWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Value      string `json:"value,omitempty"`
}

// RowValidationResult is the verdict for one source row
type RowValidationResult struct {
	RowIndex int                 `json:"rowIndex"`
	Status   RowStatus           `json:"status"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// DeriveStatus computes the row status from collected errors and warnings:
// any error means fail, else any warning means warn, else pass.
func DeriveStatus(errors []ValidationError, warnings []ValidationWarning) RowStatus {
	if len(errors) > 0 {
		return RowFail
	}
	if len(warnings) > 0 {
		return RowWarn
	}
	return RowPass
}

// ValidationSummary aggregates row verdicts for a validation response
type ValidationSummary struct {
	Total int `json:"total"`
	Pass  int `json:"pass"`
	Warn  int `json:"warn"`
	Fail  int `json:"fail"`
}

// Summarize counts row verdicts
func Summarize(results []RowValidationResult) ValidationSummary {
	s := ValidationSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case RowPass:
			s.Pass++
		case RowWarn:
			s.Warn++
		case RowFail:
			s.Fail++
		}
	}
	return s
}
