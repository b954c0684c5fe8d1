// Package events carries lifecycle notifications out of the engine.
// Events are emitted after the owning transaction commits and delivery is
// best effort: a failed publish is logged, never surfaced to the caller.
package events

import (
	"context"

	"shiftdesk/internal/models"

	"github.com/google/uuid"
)

type EventType string

const (
	EventNewApplicant        EventType = "NewApplicant"
	EventApplicationAccepted EventType = "ApplicationAccepted"
	EventApplicationRejected EventType = "ApplicationRejected"
	EventShiftExpired        EventType = "ShiftExpired"
	EventShiftCompleted      EventType = "ShiftCompleted"
)

// Event is one lifecycle notification addressed to a single recipient.
type Event struct {
	Type        EventType         `json:"type"`
	RecipientID uuid.UUID         `json:"recipient_id"`
	TargetKind  models.TargetKind `json:"target_kind"`
	TargetID    uuid.UUID         `json:"target_id"`
	ApplicantID *uuid.UUID        `json:"applicant_id,omitempty"`
}

// Emitter delivers events to whatever produces user-facing alerts.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}
