package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/repository"
	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

// RoundStatusProcessor consome o tópico round_status e repassa o hard
// interrupt aos terminais via Pub/Sub depois de atualizar o descritor.
type RoundStatusProcessor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Repo   *repository.PostgresRepo

	OnError func(string)

	// OnApplied publica o aviso de status para os terminais
	OnApplied func(e events.RoundStatus)
}

// Run inicia o loop de consumo de status de rodada.
func (p *RoundStatusProcessor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		var ev events.RoundStatus
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			continue
		}

		if err := p.Repo.UpdateRoundActive(ctx, ev.RoundID, ev.Active); err != nil {
			p.Log.Warn("db update round failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_update")
			}
			continue
		}

		p.Log.Info("round status applied",
			zap.String("round_id", ev.RoundID),
			zap.Bool("active", ev.Active),
			zap.String("reason", ev.Reason),
		)
		if p.OnApplied != nil {
			p.OnApplied(ev)
		}
	}
}
