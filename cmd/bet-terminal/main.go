package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/backend"
	tcache "github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/cache"
	thttp "github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/http"
	kpub "github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/producer"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/repo"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/risk"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/session"
	sharedcache "github.com/radieske/lotto-bet-platform-poc/internal/shared/cache"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/db"
	sharedkafka "github.com/radieske/lotto-bet-platform-poc/internal/shared/kafka"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic order_submitted)
	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicOrderSubmitted)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	riskCache := tcache.New(rdb)
	sink := backend.New(cfg.BackendURL)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicOrderSubmitted)
	mgr := session.NewManager(log)

	// Métricas Prometheus do terminal
	commits := prometheus.NewCounter(prometheus.CounterOpts{Name: "terminal_commits_total", Help: "lotes confirmados"})
	commitRejects := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "terminal_commit_rejections_total", Help: "commits recusados por motivo"}, []string{"reason"})
	submits := prometheus.NewCounter(prometheus.CounterOpts{Name: "terminal_orders_submitted_total", Help: "pedidos submetidos ao sink"})
	riskRefreshes := prometheus.NewCounter(prometheus.CounterOpts{Name: "terminal_risk_refreshes_total", Help: "refreshes de snapshot de risco aplicados"})
	prometheus.MustRegister(commits, commitRejects, submits, riskRefreshes)

	// HTTP público
	api := thttp.NewServer(log, repository, riskCache, mgr, sink, publ)
	api.OnCommit = func() { commits.Inc() }
	api.OnCommitRejected = func(reason string) { commitRejects.WithLabelValues(reason).Inc() }
	api.OnSubmit = func() { submits.Inc() }
	api.OnRiskRefresh = func() { riskRefreshes.Inc() }

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// Pub/Sub de risco e status de rodada vindos do risk-sync-worker
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	risk.StartRedisSubscriber(ctx, log, rdb, mgr, api.RefreshRisk)

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	// encerra o servidor e as sessões quando chegar o sinal
	go func() {
		<-ctx.Done()
		mgr.Shutdown()
		_ = apiSrv.Close()
	}()

	log.Info("bet-terminal listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
