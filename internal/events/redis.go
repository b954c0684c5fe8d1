package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "shiftdesk:events:"

// RedisEmitter publishes events on a per-recipient pub/sub channel so a
// notification worker can fan them out to the right user.
type RedisEmitter struct {
	client *redis.Client
}

var _ Emitter = (*RedisEmitter)(nil)

func NewRedisEmitter(client *redis.Client) *RedisEmitter {
	return &RedisEmitter{client: client}
}

func (e *RedisEmitter) Emit(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling %s event for %s: %v\n", event.Type, event.RecipientID, err)
		return
	}

	channel := fmt.Sprintf("%s%s", channelPrefix, event.RecipientID)
	if err := e.client.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("Error publishing %s event to %s: %v\n", event.Type, channel, err)
	}
}
