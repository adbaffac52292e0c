package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-bet-platform-poc/internal/shared/logger"
	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// IDs de rodada usados no ambiente local
	roundCatalog = []string{"ROUND_MORNING", "ROUND_EVENING", "ROUND_MONTHLY"}

	// Kinds usados como escopo nos updates simulados
	scopeCatalog = []string{"ALL", "TWO_UP", "TWO_DOWN", "THREE_TOP", "THREE_TOD", "RUN_UP", "RUN_DOWN"}

	riskKinds = []string{"CLOSED", "HALF_PAY", "OPEN"}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "limits_admin_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "limits_admin_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
	ordersConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "limits_admin_orders_confirmed_total",
		Help: "Pedidos confirmados pelo mock",
	})
	ordersRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "limits_admin_orders_rejected_total",
		Help: "Pedidos rejeitados pelo mock",
	})
)

// Frames enviados pelo feed: o campo type distingue risco de status de rodada
type riskFrame struct {
	Type string `json:"type"` // "risk"
	events.RiskUpdate
}

type roundFrame struct {
	Type string `json:"type"` // "round"
	events.RoundStatus
}

// Representa uma conexão de cliente WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// Estrutura responsável por gerenciar os clientes conectados via WebSocket
// e realizar broadcast de mensagens para todos eles.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

// Envia uma mensagem para todos os clientes conectados
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

type server struct {
	log *zap.Logger
}

func newServer(log *zap.Logger) *server { return &server{log: log} }

type confirmReq struct {
	OrderID string `json:"order_id"`
	RoundID string `json:"round_id"`
}

type confirmResp struct {
	Status      string `json:"status"` // "CONFIRMED" | "REJECTED"
	Reason      string `json:"reason,omitempty"`
	Permanent   bool   `json:"permanent,omitempty"`
	ProviderRef string `json:"provider_ref,omitempty"`
}

// Handler mock de confirmação de pedido: aceita 80%, rejeita o resto com
// motivos variados (um deles permanente, para exercitar o descarte no terminal)
func (s *server) confirmHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req confirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp := confirmResp{
		Status:      "CONFIRMED",
		ProviderRef: "LOT-" + safePrefix(req.OrderID, 8),
	}
	if rand.Intn(100) >= 80 {
		resp = confirmResp{Status: "REJECTED"}
		switch rand.Intn(3) {
		case 0:
			resp.Reason = "insufficient_balance"
			resp.Permanent = true
		case 1:
			resp.Reason = "limit_exceeded_upstream"
		default:
			resp.Reason = "backend_timeout_mock"
		}
		ordersRejected.Inc()
	} else {
		ordersConfirmed.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type cancelReq struct {
	ProviderRef string `json:"provider_ref"`
}

type cancelResp struct {
	Status string `json:"status"` // "CANCELLED" | "REFUSED"
	Reason string `json:"reason,omitempty"`
}

// Handler mock de cancelamento: recusa apenas refs desconhecidas
func (s *server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req cancelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp := cancelResp{Status: "CANCELLED"}
	if len(req.ProviderRef) < 4 {
		resp = cancelResp{Status: "REFUSED", Reason: "unknown_provider_ref"}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// evita panic se o OrderID for menor que n caracteres
func safePrefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// número de dois dígitos aleatório como string ("00".."99")
func rndNumber() string {
	return fmt.Sprintf("%02d", rand.Intn(100))
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	rand.Seed(time.Now().UnixNano())

	prometheus.MustRegister(wsConnections, wsMessagesSent, ordersConfirmed, ordersRejected)

	h := newHub(log)
	s := newServer(log)

	// Gera e envia updates de risco simulados a cada 3 segundos; de tempos em
	// tempos emite também um frame de status de rodada
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		version := 1
		for range ticker.C {
			roundID := roundCatalog[rand.Intn(len(roundCatalog))]

			// rajada curta de updates, como uma mesa ajustando vários números
			n := 1 + rand.Intn(3)
			for i := 0; i < n; i++ {
				h.broadcast(riskFrame{
					Type: "risk",
					RiskUpdate: events.RiskUpdate{
						RoundID:   roundID,
						Number:    rndNumber(),
						RiskKind:  riskKinds[rand.Intn(len(riskKinds))],
						Scope:     scopeCatalog[rand.Intn(len(scopeCatalog))],
						UpdatedAt: time.Now().UTC(),
						Source:    cfg.ServiceName,
						Version:   version,
					},
				})
				version++
			}

			// ~5% das vezes a administração encerra a rodada à força
			if rand.Intn(100) < 5 {
				h.broadcast(roundFrame{
					Type: "round",
					RoundStatus: events.RoundStatus{
						RoundID: roundID,
						Active:  false,
						Reason:  "admin_close_mock",
						Ts:      time.Now().UTC(),
					},
				})
			}
		}
	}()

	// ==== MUX PÚBLICO (HTTP principal): /ws e os mocks de pedido
	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				// Lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	appMux.HandleFunc("/orders/confirm", s.confirmHandler)
	appMux.HandleFunc("/orders/cancel", s.cancelHandler)

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("limits admin simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("limits admin simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws,/orders/confirm,/orders/cancel"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
