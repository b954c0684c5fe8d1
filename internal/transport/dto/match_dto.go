package dto

import "github.com/google/uuid"

type EvaluateMatchRequest struct {
	ShiftID     uuid.UUID `json:"-" validate:"required"` // From path
	ApplicantID uuid.UUID `json:"-"`                     // Set from user context
}

type MatchCheckResponse struct {
	Label   string `json:"label"`
	Matched bool   `json:"matched"`
}

type MatchResponse struct {
	Checks         []MatchCheckResponse `json:"checks"`
	FullyQualified bool                 `json:"fully_qualified"`
}
