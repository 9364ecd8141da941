package models

// MatchConfidence is the mapping engine's certainty tier for a mapping
type MatchConfidence string

const (
	ConfidenceExact MatchConfidence = "exact"
	ConfidenceAlias MatchConfidence = "alias"
	ConfidenceFuzzy MatchConfidence = "fuzzy"
	ConfidenceNone  MatchConfidence = "none"
)

// Priority orders confidences for claim stealing: exact > alias > fuzzy > none
func (c MatchConfidence) Priority() int {
	switch c {
	case ConfidenceExact:
		return 3
	case ConfidenceAlias:
		return 2
	case ConfidenceFuzzy:
		return 1
	}
	return 0
}

// FieldMapping associates one source spreadsheet column with zero-or-one
// target entity field. TargetField is "" when unmapped.
type FieldMapping struct {
	SourceColumn string          `json:"sourceColumn"`
	TargetField  string          `json:"targetField"`
	Confidence   MatchConfidence `json:"confidence"`
	DefaultValue string          `json:"defaultValue,omitempty"`
	Ignored      bool            `json:"ignored"`
}
