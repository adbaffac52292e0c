package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

// RedisCache regrava o snapshot de risco corrente de uma rodada no Redis.
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis do snapshot corrente de uma rodada
func key(roundID string) string { return "risk:current:" + roundID }

// entryJSON é o shape lido pelo bet-terminal; manter em sincronia.
type entryJSON struct {
	Number   string `json:"number"`
	RiskKind string `json:"risk_kind"`
	Scope    string `json:"scope"`
}

// SetCurrent grava o snapshot inteiro da rodada (substituição total, nunca
// patch de campo).
func (r *RedisCache) SetCurrent(ctx context.Context, roundID string, entries []events.RiskUpdate) error {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{Number: e.Number, RiskKind: e.RiskKind, Scope: e.Scope})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(roundID), b, r.TTL).Err()
}
