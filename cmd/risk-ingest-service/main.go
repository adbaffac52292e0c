package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/risk-ingest/publisher"
	"github.com/radieske/lotto-bet-platform-poc/internal/risk-ingest/service"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/logger"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brokers := strings.Split(cfg.KafkaBrokers, ",")

	// Um publisher por tópico: updates de risco e status de rodada
	riskPub := publisher.NewKafkaPublisher(brokers, cfg.TopicRiskUpdates, log)
	defer riskPub.Close()
	roundPub := publisher.NewKafkaPublisher(brokers, cfg.TopicRoundStatus, log)
	defer roundPub.Close()

	// WS Client
	wsClient := &service.WSClient{
		URL:  cfg.AdminWSURL,
		Log:  log,
		Risk: riskPub,
		Rnd:  roundPub,
	}
	go wsClient.Start(ctx)

	// Metrics e health (o ingest não tem dependência própria além do Kafka;
	// falha de publish aparece no log e na reconexão do WS)
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}
