package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/wager"
)

// RiskCache lê o snapshot de risco mantido no Redis pelo risk-sync-worker.
// O banco é o fallback quando a chave não existe.
type RiskCache struct{ R *redis.Client }

func New(r *redis.Client) *RiskCache { return &RiskCache{R: r} }

// entryJSON é a forma serializada de uma entrada de risco no Redis (mesmo
// shape gravado pelo risk-sync-worker).
type entryJSON struct {
	Number   string `json:"number"`
	RiskKind string `json:"risk_kind"`
	Scope    string `json:"scope"`
}

func key(roundID string) string { return "risk:current:" + roundID }

// Get retorna o snapshot da rodada, ou found=false se a chave não existe.
func (c *RiskCache) Get(ctx context.Context, roundID string) (entries []wager.RiskEntry, found bool, err error) {
	b, err := c.R.Get(ctx, key(roundID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var raw []entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, false, err
	}
	for _, e := range raw {
		kind, err := wager.ParseRiskKind(e.RiskKind)
		if err != nil {
			return nil, false, err
		}
		scope, err := wager.ParseScope(e.Scope)
		if err != nil {
			return nil, false, err
		}
		entries = append(entries, wager.RiskEntry{Number: e.Number, Kind: kind, Scope: scope})
	}
	return entries, true, nil
}
