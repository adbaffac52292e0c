package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/risk-ingest/publisher"
	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

// frame é o envelope enviado pelo painel de limites: o campo type decide se o
// corpo é um update de risco ou uma mudança de status de rodada.
type frame struct {
	Type string `json:"type"` // "risk" | "round"
}

// WSClient consome o feed WebSocket do painel de limites e republica cada
// frame no tópico Kafka correspondente.
type WSClient struct {
	URL  string
	Log  *zap.Logger
	Risk *publisher.KafkaPublisher // tópico risk_updates
	Rnd  *publisher.KafkaPublisher // tópico round_status
}

// Start inicia o loop de conexão e escuta do WebSocket.
// Em caso de desconexão, tenta reconectar automaticamente com backoff.
func (c *WSClient) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("context canceled, stopping WS client")
			return
		default:
			if err := c.connectAndListen(ctx); err != nil {
				c.Log.Warn("connection closed", zap.Error(err))
				time.Sleep(3 * time.Second) // Aguarda antes de tentar reconectar
			}
		}
	}
}

// connectAndListen estabelece a conexão WebSocket e processa mensagens
// recebidas, roteando cada uma para o tópico do seu tipo.
func (c *WSClient) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("connected to limits feed WS", zap.String("url", c.URL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.Error("read message failed", zap.Error(err))
			return err
		}

		var f frame
		if err := json.Unmarshal(message, &f); err != nil {
			c.Log.Warn("invalid message", zap.Error(err))
			continue
		}

		switch f.Type {
		case "risk":
			var update events.RiskUpdate
			if err := json.Unmarshal(message, &update); err != nil {
				c.Log.Warn("invalid risk frame", zap.Error(err))
				continue
			}
			if err := c.Risk.Publish(ctx, update.RoundID, update); err != nil {
				c.Log.Error("failed to publish risk update", zap.Error(err))
			}
		case "round":
			var status events.RoundStatus
			if err := json.Unmarshal(message, &status); err != nil {
				c.Log.Warn("invalid round frame", zap.Error(err))
				continue
			}
			if err := c.Rnd.Publish(ctx, status.RoundID, status); err != nil {
				c.Log.Error("failed to publish round status", zap.Error(err))
			}
		default:
			c.Log.Warn("unknown frame type", zap.String("type", f.Type))
		}
	}
}
