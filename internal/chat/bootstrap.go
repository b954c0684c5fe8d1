// Package chat opens a conversation thread between a business and the
// worker it just accepted. Like event delivery it runs after commit and
// is best effort.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shiftdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Bootstrapper creates the initial conversation between the two sides of
// an accepted application.
type Bootstrapper interface {
	OpenConversation(ctx context.Context, kind models.TargetKind, targetID, businessID, applicantID uuid.UUID)
}

type conversation struct {
	TargetKind  models.TargetKind `json:"target_kind"`
	TargetID    uuid.UUID         `json:"target_id"`
	BusinessID  uuid.UUID         `json:"business_id"`
	ApplicantID uuid.UUID         `json:"applicant_id"`
	OpenedAt    time.Time         `json:"opened_at"`
}

// RedisBootstrapper stores the conversation record in Redis, keyed by the
// posting, where the chat service picks it up. SetNX keeps a re-run from
// clobbering an existing thread.
type RedisBootstrapper struct {
	client *redis.Client
}

var _ Bootstrapper = (*RedisBootstrapper)(nil)

func NewRedisBootstrapper(client *redis.Client) *RedisBootstrapper {
	return &RedisBootstrapper{client: client}
}

func (b *RedisBootstrapper) OpenConversation(ctx context.Context, kind models.TargetKind, targetID, businessID, applicantID uuid.UUID) {
	conv := conversation{
		TargetKind:  kind,
		TargetID:    targetID,
		BusinessID:  businessID,
		ApplicantID: applicantID,
		OpenedAt:    time.Now(),
	}

	payload, err := json.Marshal(conv)
	if err != nil {
		log.Printf("Error marshaling conversation for %s %s: %v\n", kind, targetID, err)
		return
	}

	key := fmt.Sprintf("shiftdesk:chat:%s:%s", kind, targetID)
	if err := b.client.SetNX(ctx, key, payload, 0).Err(); err != nil {
		log.Printf("Error opening conversation for %s %s: %v\n", kind, targetID, err)
	}
}

// NopBootstrapper is used when chat is not configured.
type NopBootstrapper struct{}

var _ Bootstrapper = (*NopBootstrapper)(nil)

func NewNopBootstrapper() *NopBootstrapper {
	return &NopBootstrapper{}
}

func (b *NopBootstrapper) OpenConversation(ctx context.Context, kind models.TargetKind, targetID, businessID, applicantID uuid.UUID) {
}
