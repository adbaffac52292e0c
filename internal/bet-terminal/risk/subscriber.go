package risk

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/session"
)

// PubSubChannel define o canal Redis Pub/Sub de avisos do risk-sync-worker.
const PubSubChannel = "risk_updates_broadcast"

// DebounceWindow é a janela de coalescência dos avisos de risco: rajadas de
// pushes dentro da janela viram um único re-fetch/re-render.
const DebounceWindow = time.Second

// notice espelha o payload publicado pelo risk-sync-worker.
type notice struct {
	Type    string          `json:"type"` // "risk" | "round"
	RoundID string          `json:"round_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type roundPayload struct {
	Active bool   `json:"active"`
	Reason string `json:"reason,omitempty"`
}

// Refresher busca o snapshot de risco de uma rodada e o aplica nas sessões.
type Refresher func(ctx context.Context, roundID string)

// debounceSet mantém um Debouncer por rodada, criado sob demanda e descartado
// quando a rodada encerra, para um terminal longevo não acumular timers de
// rodadas mortas.
type debounceSet struct {
	mu sync.Mutex
	mk func(roundID string) *session.Debouncer
	m  map[string]*session.Debouncer
}

func newDebounceSet(mk func(roundID string) *session.Debouncer) *debounceSet {
	return &debounceSet{mk: mk, m: make(map[string]*session.Debouncer)}
}

func (s *debounceSet) trigger(roundID string) {
	s.mu.Lock()
	d, ok := s.m[roundID]
	if !ok {
		d = s.mk(roundID)
		s.m[roundID] = d
	}
	s.mu.Unlock()
	d.Trigger()
}

// drop para e remove o debouncer da rodada; disparos pendentes são cancelados.
func (s *debounceSet) drop(roundID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.m[roundID]; ok {
		d.Stop()
		delete(s.m, roundID)
	}
}

func (s *debounceSet) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.m {
		d.Stop()
		delete(s.m, id)
	}
}

func (s *debounceSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// StartRedisSubscriber inicia uma goroutine que escuta o canal Pub/Sub e
// reconcilia os dois tipos de push com o estado das sessões:
//   - "round": hard interrupt, aplicado imediatamente no Manager; o
//     encerramento também descarta o debouncer da rodada
//   - "risk": coalescido por rodada num Debouncer de DebounceWindow; cada
//     novo aviso reinicia a janela em vez de enfileirar um segundo refresh
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, mgr *session.Manager, refresh Refresher) {
	sub := r.Subscribe(ctx, PubSubChannel)
	ch := sub.Channel()

	debounced := newDebounceSet(func(roundID string) *session.Debouncer {
		return session.NewDebouncer(DebounceWindow, func() {
			fctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			refresh(fctx, roundID)
		})
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				debounced.stopAll()
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var n notice
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					log.Warn("pubsub unmarshal error", zap.Error(err))
					continue
				}
				switch n.Type {
				case "round":
					var rp roundPayload
					if err := json.Unmarshal(n.Payload, &rp); err != nil {
						log.Warn("round payload unmarshal error", zap.Error(err))
						continue
					}
					// aplicado na hora, mesmo no meio de uma digitação
					mgr.ApplyRoundStatus(n.RoundID, rp.Active)
					if !rp.Active {
						debounced.drop(n.RoundID)
					}
				case "risk":
					debounced.trigger(n.RoundID)
				default:
					log.Warn("unknown notice type", zap.String("type", n.Type))
				}
			}
		}
	}()
}
