package model

import "time"

// AssessmentRecord is a persisted assessment tied to a field.
type AssessmentRecord struct {
	CreatedAt    time.Time            `json:"created_at"`
	ID           string               `json:"id"`
	FieldID      string               `json:"field_id"`
	ComparisonID string               `json:"comparison_id,omitempty"`
	Assessment   SoilHealthAssessment `json:"assessment"`
	Rank         int                  `json:"rank,omitempty"`
}
