package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/backend"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/cache"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/dto"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/engine"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/repo"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/round"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/session"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/wager"
	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

// Publisher é o produtor de eventos de pedido submetido.
type Publisher interface {
	PublishOrderSubmitted(context.Context, events.OrderSubmitted) error
}

// Server expõe a API REST do terminal de apostas.
type Server struct {
	log   *zap.Logger
	repo  *repo.Postgres
	risk  *cache.RiskCache
	mgr   *session.Manager
	sink  *backend.Client
	publ  Publisher

	// Callbacks de métricas (counter++); podem ser nil
	OnCommit         func()
	OnCommitRejected func(reason string)
	OnSubmit         func()
	OnRiskRefresh    func()
}

func NewServer(log *zap.Logger, r *repo.Postgres, rc *cache.RiskCache, m *session.Manager, sink *backend.Client, p Publisher) *Server {
	return &Server{log: log, repo: r, risk: rc, mgr: m, sink: sink, publ: p}
}

// Router retorna o roteador HTTP com os endpoints do terminal.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/sessions", s.createSession)
	r.Get("/v1/sessions/{id}", s.getSession)
	r.Delete("/v1/sessions/{id}", s.teardownSession)

	r.Post("/v1/sessions/{id}/keystrokes", s.keystroke)
	r.Post("/v1/sessions/{id}/patterns", s.applyPattern)
	r.Post("/v1/sessions/{id}/special-sets", s.addSpecialSet)
	r.Post("/v1/sessions/{id}/reverse", s.reverse)
	r.Post("/v1/sessions/{id}/tab", s.switchTab)
	r.Delete("/v1/sessions/{id}/pending", s.clearPending)

	r.Post("/v1/sessions/{id}/commits", s.commit)
	r.Get("/v1/sessions/{id}/summary", s.summary)
	r.Post("/v1/sessions/{id}/note", s.setNote)
	r.Delete("/v1/sessions/{id}/batches/{batchId}", s.removeBatch)
	r.Post("/v1/sessions/{id}/groups/remove", s.removeGroup)

	r.Post("/v1/sessions/{id}/submit", s.submit)
	r.Post("/v1/orders/cancel", s.cancelOrder)
	return r
}

// LoadRisk monta o snapshot de risco da rodada: tenta o cache Redis e cai
// para o Postgres quando a chave não existe.
func (s *Server) LoadRisk(ctx context.Context, roundID string) (*wager.RiskSnapshot, error) {
	entries, found, err := s.risk.Get(ctx, roundID)
	if err != nil {
		s.log.Warn("risk cache read failed", zap.Error(err))
	}
	if !found {
		entries, err = s.repo.GetRiskEntries(ctx, roundID)
		if err != nil {
			return nil, err
		}
	}
	return wager.NewRiskSnapshot(entries), nil
}

// RefreshRisk recarrega o snapshot e o aplica em todas as sessões da rodada.
// É o alvo do debounce dos pushes de risco.
func (s *Server) RefreshRisk(ctx context.Context, roundID string) {
	snap, err := s.LoadRisk(ctx, roundID)
	if err != nil {
		s.log.Warn("risk refresh failed", zap.String("round_id", roundID), zap.Error(err))
		return
	}
	s.mgr.ApplyRisk(roundID, snap)
	if s.OnRiskRefresh != nil {
		s.OnRiskRefresh()
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	tab, err := wager.ParseTab(req.Tab)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	rnd, err := s.repo.GetRound(r.Context(), req.RoundID)
	if err != nil {
		writeErr(w, http.StatusNotFound, "round not found")
		return
	}
	now := time.Now()
	if !rnd.Active || !round.OpenAt(rnd.Schedule, now) {
		// fora da janela de apostas nenhuma sessão é aberta; o próximo
		// fechamento exibido pelo CloseInstant seria o da janela seguinte
		writeErr(w, http.StatusConflict, "round is closed")
		return
	}

	rates, err := s.repo.GetRates(r.Context(), rnd.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	snap, err := s.LoadRisk(r.Context(), rnd.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	// o instante de fechamento é calculado uma única vez por carregamento
	closeAt := round.CloseInstant(rnd.Schedule, now)

	composer := wager.NewComposer(tab, rates, snap, closeAt)
	id := uuid.NewString()
	sess := s.mgr.Add(id, rnd.ID, composer, closeAt)

	s.log.Info("session created",
		zap.String("session_id", id),
		zap.String("round_id", rnd.ID),
		zap.Time("close_at", closeAt),
	)
	writeJSON(w, http.StatusCreated, sessionView(sess))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) teardownSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mgr.Remove(id) // cancela o countdown de forma determinística
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) keystroke(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.KeystrokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := sess.Composer.Keystroke(req.Digit); err != nil {
		writeComposerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) applyPattern(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	mode, err := engine.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Composer.ApplyPattern(req.Pattern, mode); err != nil {
		writeComposerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) addSpecialSet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.SpecialSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	set, err := engine.ParseSpecialSet(req.Set)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Composer.AddSpecialSet(set); err != nil {
		writeComposerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) reverse(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Composer.Reverse()
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) switchTab(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.SwitchTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	tab, err := wager.ParseTab(req.Tab)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Composer.SwitchTab(tab)
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) clearPending(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Composer.ClearPending()
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) commit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	batchID, err := sess.Composer.Commit(req.TopCents, req.BottomCents)
	if err != nil {
		if s.OnCommitRejected != nil {
			s.OnCommitRejected(rejectReason(err))
		}
		writeComposerErr(w, err)
		return
	}
	if s.OnCommit != nil {
		s.OnCommit()
	}
	writeJSON(w, http.StatusOK, dto.CommitResponse{BatchID: batchID})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sum := sess.Composer.Summarize()

	resp := dto.SummaryResponse{
		TotalCents:        sum.TotalCents,
		DisplayTotalCents: sum.DisplayTotalCents,
		RemainingSeconds:  sess.RemainingSeconds(),
		State:             sess.Composer.State().String(),
	}
	for _, g := range sum.Groups {
		gv := dto.GroupView{BatchID: g.BatchID, Numbers: g.Numbers, LineIDs: g.LineIDs}
		for _, p := range g.Pairs {
			gv.Pairs = append(gv.Pairs, dto.KindAmountView{
				Kind:        p.Kind.String(),
				Label:       p.Kind.Label(),
				AmountCents: p.AmountCents,
			})
		}
		resp.Groups = append(resp.Groups, gv)
	}
	for _, l := range sum.Lines {
		resp.Lines = append(resp.Lines, dto.LineViewDTO{
			LineID:      l.LineID,
			Number:      l.Number,
			Kind:        l.Kind.String(),
			AmountCents: l.AmountCents,
			BatchID:     l.BatchID,
			RiskFlag:    l.Flag.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) setNote(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	sess.Composer.SetNote(req.Note)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeBatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	removed := sess.Composer.RemoveBatch(chi.URLParam(r, "batchId"))
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) removeGroup(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dto.RemoveGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	removed := sess.Composer.RemoveLines(req.LineIDs)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ord := sess.Composer.OrderSnapshot()
	if len(ord.Lines) == 0 {
		writeErr(w, http.StatusUnprocessableEntity, "order is empty")
		return
	}

	orderID := uuid.NewString()
	providerRef, err := s.sink.Submit(r.Context(), orderID, sess.RoundID, ord.Lines, ord.Note)
	if err != nil {
		var rej *wager.SubmissionRejectedError
		if errors.As(err, &rej) {
			// rejeição permanente limpa o pedido; as demais o preservam
			// para o operador editar e tentar de novo
			if rej.Permanent {
				sess.Composer.ClearOrder()
			}
			writeErr(w, http.StatusConflict, rej.Reason)
			return
		}
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := s.repo.SaveSubmittedOrder(r.Context(), orderID, sess.ID, sess.RoundID, ord.Note, ord.Lines); err != nil {
		s.log.Warn("order persist failed", zap.String("order_id", orderID), zap.Error(err))
	}

	ev := events.OrderSubmitted{OrderID: orderID, SessionID: sess.ID, RoundID: sess.RoundID, Note: ord.Note}
	for _, l := range ord.Lines {
		ev.Lines = append(ev.Lines, events.OrderLine{Number: l.Number, Kind: l.Kind.String(), AmountCents: l.AmountCents})
	}
	if err := s.publ.PublishOrderSubmitted(r.Context(), ev); err != nil {
		s.log.Warn("order event publish failed", zap.String("order_id", orderID), zap.Error(err))
	}

	sess.Composer.MarkSubmitted()
	if s.OnSubmit != nil {
		s.OnSubmit()
	}
	writeJSON(w, http.StatusOK, dto.SubmitResponse{OrderID: orderID, ProviderRef: providerRef, Status: "SUBMITTED"})
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.ProviderRef == "" {
		writeErr(w, http.StatusBadRequest, "provider_ref required")
		return
	}
	if err := s.sink.Cancel(r.Context(), req.ProviderRef); err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}
	if req.OrderID != "" {
		if err := s.repo.MarkOrderCancelled(r.Context(), req.OrderID); err != nil {
			s.log.Warn("order cancel persist failed", zap.String("order_id", req.OrderID), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func sessionView(sess *session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID:        sess.ID,
		RoundID:          sess.RoundID,
		Tab:              sess.Composer.Tab().String(),
		State:            sess.Composer.State().String(),
		RawInput:         sess.Composer.RawInput(),
		Pending:          sess.Composer.Pending(),
		CloseAt:          sess.Composer.CloseAt(),
		RemainingSeconds: sess.RemainingSeconds(),
	}
}

// writeComposerErr mapeia a taxonomia de erros do composer para HTTP.
func writeComposerErr(w http.ResponseWriter, err error) {
	var (
		ife *wager.InputFormatError
		lve *wager.LimitViolationError
	)
	switch {
	case errors.As(err, &ife):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &lve):
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wager.ErrEmptyCommit):
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wager.ErrRoundClosed):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func rejectReason(err error) string {
	var lve *wager.LimitViolationError
	switch {
	case errors.As(err, &lve):
		return "limit"
	case errors.Is(err, wager.ErrEmptyCommit):
		return "empty"
	case errors.Is(err, wager.ErrRoundClosed):
		return "round_closed"
	}
	return "other"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
