package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const ChannelRiskBroadcast = "risk_updates_broadcast"

type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// Notice é o payload padrão do canal de broadcast consumido pelo bet-terminal.
// Type "risk" pede um re-fetch (debounced) do snapshot; Type "round" é um
// hard interrupt de status de rodada.
type Notice struct {
	Type    string          `json:"type"` // "risk" | "round"
	RoundID string          `json:"round_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoundPayload é o corpo de um Notice de tipo "round".
type RoundPayload struct {
	Active bool   `json:"active"`
	Reason string `json:"reason,omitempty"`
}
