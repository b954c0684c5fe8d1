package events

import (
	"context"
	"log"
)

// LogEmitter writes events to the process log. Used when no Redis
// connection is configured and as a stand-in during development.
type LogEmitter struct{}

var _ Emitter = (*LogEmitter)(nil)

func NewLogEmitter() *LogEmitter {
	return &LogEmitter{}
}

func (e *LogEmitter) Emit(ctx context.Context, event Event) {
	if event.ApplicantID != nil {
		log.Printf("Event %s for %s: %s %s applicant %s", event.Type, event.RecipientID, event.TargetKind, event.TargetID, *event.ApplicantID)
		return
	}
	log.Printf("Event %s for %s: %s %s", event.Type, event.RecipientID, event.TargetKind, event.TargetID)
}
