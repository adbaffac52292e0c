package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/round"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/wager"
)

// Session amarra o composer de um operador ao countdown da rodada carregada.
type Session struct {
	ID       string
	RoundID  string
	Composer *wager.Composer

	countdown *round.Countdown
	remaining atomic.Int64 // segundos restantes, atualizado pelo tick
}

// RemainingSeconds é o restante reportado pelo último tick do countdown.
func (s *Session) RemainingSeconds() int64 { return s.remaining.Load() }

// Manager registra as sessões vivas do terminal e aplica nelas os pushes
// externos (status da rodada e refresh da tabela de risco).
type Manager struct {
	mu       sync.RWMutex
	log      *zap.Logger
	sessions map[string]*Session
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{log: log, sessions: make(map[string]*Session)}
}

// Add registra a sessão e inicia o countdown até closeAt. Na expiração o
// composer fecha e o timer para sozinho; o alvo nunca é recalculado.
func (m *Manager) Add(id, roundID string, c *wager.Composer, closeAt time.Time) *Session {
	s := &Session{ID: id, RoundID: roundID, Composer: c}
	s.remaining.Store(int64(time.Until(closeAt) / time.Second))

	s.countdown = round.StartCountdown(closeAt,
		func(remaining time.Duration) {
			s.remaining.Store(int64(remaining / time.Second))
		},
		func() {
			s.remaining.Store(0)
			c.CloseRound()
			m.log.Info("round countdown expired", zap.String("session_id", id), zap.String("round_id", roundID))
		},
	)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// Get retorna a sessão pelo ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return s, nil
}

// Remove encerra a sessão e cancela o countdown de forma determinística.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.countdown.Stop()
	}
}

// ApplyRoundStatus aplica um push de status. Encerramento é hard interrupt:
// toda sessão da rodada abandona a edição em andamento imediatamente.
func (m *Manager) ApplyRoundStatus(roundID string, active bool) {
	if active {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.RoundID != roundID {
			continue
		}
		s.Composer.CloseRound()
		s.countdown.Stop()
		m.log.Info("round closed by push", zap.String("session_id", s.ID), zap.String("round_id", roundID))
	}
}

// ApplyRisk troca o snapshot de risco de todas as sessões da rodada. O
// snapshot é um valor imutável: leitores nunca veem estado parcial.
func (m *Manager) ApplyRisk(roundID string, snap *wager.RiskSnapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.sessions {
		if s.RoundID != roundID {
			continue
		}
		s.Composer.SetRisk(snap)
		n++
	}
	m.log.Debug("risk snapshot fanned out",
		zap.String("round_id", roundID),
		zap.Int("sessions", n),
		zap.Int("entries", snap.Len()),
	)
}

// Shutdown derruba todas as sessões (teardown do serviço).
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.countdown.Stop()
		delete(m.sessions, id)
	}
}
