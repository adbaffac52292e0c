package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"

	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/cache"
	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/consumer"
	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/pubsub"
	"github.com/radieske/lotto-bet-platform-poc/internal/risk-sync/repository"
	sharedcache "github.com/radieske/lotto-bet-platform-poc/internal/shared/cache"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/db"
	sharedkafka "github.com/radieske/lotto-bet-platform-poc/internal/shared/kafka"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Instancia cache Redis e repositório Postgres para o risco corrente
	ttl := 60 * time.Second
	rcache := cache.NewRedisCache(redisClient, ttl)
	repo := repository.NewPostgresRepo(pg)

	// Consumers Kafka: updates de risco e status de rodada
	riskReader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicRiskUpdates, "risk-sync")
	defer riskReader.Close()

	roundReader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicRoundStatus, "risk-sync")
	defer roundReader.Close()

	// DLQ para mensagens indecifráveis do tópico de risco
	dlq := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRiskUpdatesDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_sync_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_sync_db_writes_total", Help: "escritas no banco (upsert+history)"})
	rounds := prometheus.NewCounter(prometheus.CounterOpts{Name: "risk_sync_round_status_total", Help: "mudanças de status de rodada aplicadas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "risk_sync_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, rounds, errorsBy)

	// Broadcaster para avisar os terminais via Redis Pub/Sub
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	notify := func(n pubsub.Notice) {
		b, _ := json.Marshal(n)
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := broadcaster.Publish(ctx, cfg.RedisPubSubChannel, b); err != nil {
			log.Warn("broadcast publish failed", zap.Error(err))
		}
	}

	// Processor de updates de risco, com callbacks de métricas e broadcast
	proc := &consumer.Processor{
		Log:        log,
		Reader:     riskReader,
		Repo:       repo,
		Cache:      rcache,
		DLQ:        dlq,
		OnConsumed: func() { consumed.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após a persistência, pede aos terminais um re-fetch do snapshot
		OnAfterPersist: func(ev events.RiskUpdate) {
			notify(pubsub.Notice{Type: "risk", RoundID: ev.RoundID})
		},
	}

	// Processor de status de rodada: o hard interrupt vai com payload
	roundProc := &consumer.RoundStatusProcessor{
		Log:     log,
		Reader:  roundReader,
		Repo:    repo,
		OnError: func(stage string) { errorsBy.WithLabelValues("round_"+stage).Inc() },
		OnApplied: func(ev events.RoundStatus) {
			rounds.Inc()
			payload, _ := json.Marshal(pubsub.RoundPayload{Active: ev.Active, Reason: ev.Reason})
			notify(pubsub.Notice{Type: "round", RoundID: ev.RoundID, Payload: payload})
		},
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := roundProc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatal("round status processor stopped with error", zap.Error(err))
		}
	}()

	log.Info("risk-sync-worker started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("risk-sync-worker stopped")
}
