package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/cache"
	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/repository"
	sharedkafka "github.com/radieske/lotto-bet-platform-poc/internal/shared/kafka"
	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

// Processor consome atualizações de risco do Kafka, persiste no banco,
// regrava o cache e avisa os terminais via Redis Pub/Sub.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Repo   *repository.PostgresRepo
	Cache  *cache.RedisCache
	DLQ    *kafka.Writer // mensagens indecifráveis

	OnConsumed func()       // métricas (counter++)
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase

	// OnAfterPersist publica o aviso de refresh para os terminais
	OnAfterPersist func(e events.RiskUpdate)
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var ev events.RiskUpdate
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.toDLQ(ctx, m)
			continue
		}

		// Persiste a mudança (corrente + histórico)
		if err := p.Repo.UpsertCurrent(ctx, ev); err != nil {
			p.Log.Warn("db upsert failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_upsert")
			}
			continue
		}
		if err := p.Repo.InsertHistory(ctx, ev); err != nil {
			p.Log.Warn("db insert history failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_history")
			}
			continue
		}
		if p.OnPersist != nil {
			p.OnPersist() // callback de métrica: persistência concluída
		}

		// Regrava o snapshot inteiro da rodada no cache
		entries, err := p.Repo.CurrentEntries(ctx, ev.RoundID)
		if err != nil {
			p.Log.Warn("db read current failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_read")
			}
			continue
		}
		if err := p.Cache.SetCurrent(ctx, ev.RoundID, entries); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
			// não bloqueia o aviso se falhar o cache
		}

		if p.OnAfterPersist != nil {
			p.OnAfterPersist(ev)
		}
	}
}

func (p *Processor) toDLQ(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sharedkafka.WriteJSON(wctx, p.DLQ, string(m.Key), m.Value); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
	}
}
