package wager

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/engine"
)

// State é o estado da sessão do composer.
type State int

const (
	// StateIdle: buffer e entrada vazios (ou buffer populado aguardando preço)
	StateIdle State = iota
	// StateEditing: operador digitando um padrão
	StateEditing
	// StateClosed: rodada encerrada; estado terminal da sessão
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "EDITING"
	case StateClosed:
		return "CLOSED"
	}
	return "IDLE"
}

// Composer é o objeto de sessão que monta, valida, precifica e agrupa as
// linhas de aposta de um operador. Uma instância por sessão; os eventos de
// entrada são serializados pelo mutex interno.
type Composer struct {
	mu sync.Mutex

	tab     Tab
	raw     string              // texto parcial digitado
	pending []string            // buffer de números candidatos, ordenado e sem duplicatas
	inBuf   map[string]struct{} // índice do buffer

	rates RateTable
	risk  *RiskSnapshot // snapshot imutável, trocado por inteiro em SetRisk

	order   Order
	note    string
	closed  bool
	closeAt time.Time

	now func() time.Time
}

// NewComposer cria a sessão sobre os snapshots de taxa e risco da rodada.
// closeAt é calculado uma única vez no carregamento da rodada.
func NewComposer(tab Tab, rates RateTable, risk *RiskSnapshot, closeAt time.Time) *Composer {
	return &Composer{
		tab:     tab,
		pending: nil,
		inBuf:   make(map[string]struct{}),
		rates:   rates,
		risk:    risk,
		closeAt: closeAt,
		now:     time.Now,
	}
}

// State deriva o estado corrente da sessão.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return StateClosed
	case c.raw != "":
		return StateEditing
	default:
		return StateIdle
	}
}

func (c *Composer) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// SwitchTab troca a aba ativa e descarta o buffer pendente (a confirmação
// com o operador acontece na UI, fora deste núcleo).
func (c *Composer) SwitchTab(t Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = t
	c.clearPendingLocked()
}

// Keystroke acrescenta um dígito ao texto parcial. Ao atingir o comprimento
// completo da aba, o padrão expande automaticamente (modo identidade) para o
// buffer e o campo de entrada é limpo.
func (c *Composer) Keystroke(digit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRoundClosed
	}
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return &InputFormatError{Pattern: digit}
	}

	c.raw += digit
	if len(c.raw) >= c.tab.NumberLen() {
		c.mergePendingLocked([]string{c.raw})
		c.raw = ""
	}
	return nil
}

// ApplyPattern expande explicitamente o padrão digitado no modo pedido
// (identidade, gate direto, win de 2, win de 3) e mescla o resultado no
// buffer. Padrão malformado retorna InputFormatError sem alterar estado.
// No modo identidade o padrão vira número direto, então o comprimento e o
// charset são validados aqui contra a aba ativa.
func (c *Composer) ApplyPattern(pattern string, mode engine.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRoundClosed
	}

	if mode == engine.ModeIdentity {
		if len(pattern) != c.tab.NumberLen() || !digitsOnly(pattern) {
			return &InputFormatError{Pattern: pattern}
		}
	}

	numbers := engine.Expand(pattern, mode)
	if len(numbers) == 0 {
		return &InputFormatError{Pattern: pattern}
	}
	c.mergePendingLocked(numbers)
	c.raw = ""
	return nil
}

// AddSpecialSet mescla uma enumeração fixa (duplas, triplas, sanduíche...)
// no buffer pendente.
func (c *Composer) AddSpecialSet(kind engine.SpecialSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrRoundClosed
	}
	c.mergePendingLocked(engine.Generate(kind))
	return nil
}

// Reverse substitui cada número do buffer pelo conjunto completo de
// permutações distintas dos seus dígitos ("gerar números de volta").
// Reaplicar sobre um buffer já totalmente permutado é no-op.
func (c *Composer) Reverse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.pending) == 0 {
		return
	}

	src := c.pending
	c.pending = nil
	c.inBuf = make(map[string]struct{})
	for _, n := range src {
		c.mergePendingLocked(engine.Permute(n))
	}
}

// ClearPending descarta o buffer e o texto parcial.
func (c *Composer) ClearPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearPendingLocked()
}

// Pending retorna uma cópia do buffer de candidatos.
func (c *Composer) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.pending))
	copy(out, c.pending)
	return out
}

func (c *Composer) RawInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// Commit fecha um lote: valida os preços contra a tabela de taxas e anexa
// uma linha por (número, kind ativo) ao pedido, todas com o mesmo batch ID.
// Atômico: qualquer violação de limite rejeita o commit inteiro e nenhuma
// linha é criada. Em caso de sucesso o buffer e os preços são limpos.
func (c *Composer) Commit(topCents, bottomCents int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrRoundClosed
	}
	if !c.closeAt.IsZero() && !c.now().Before(c.closeAt) {
		// o instante de fechamento passou; a sessão vira terminal
		c.closed = true
		c.clearPendingLocked()
		return "", ErrRoundClosed
	}
	if len(c.pending) == 0 || (topCents <= 0 && bottomCents <= 0) {
		return "", ErrEmptyCommit
	}

	topKind, bottomKind := c.tab.Sides()

	type side struct {
		kind  Kind
		cents int64
	}
	var sides []side
	if topCents > 0 {
		sides = append(sides, side{topKind, topCents})
	}
	if bottomCents > 0 {
		sides = append(sides, side{bottomKind, bottomCents})
	}

	// valida todos os lados antes de criar qualquer linha
	for _, s := range sides {
		rate, ok := c.rates[s.kind]
		if !ok {
			return "", &LimitViolationError{Kind: s.kind, AmountCents: s.cents, BoundCents: 0, Above: true}
		}
		if s.cents < rate.MinCents {
			return "", &LimitViolationError{Kind: s.kind, AmountCents: s.cents, BoundCents: rate.MinCents}
		}
		if rate.MaxCents != 0 && s.cents > rate.MaxCents {
			return "", &LimitViolationError{Kind: s.kind, AmountCents: s.cents, BoundCents: rate.MaxCents, Above: true}
		}
	}

	batchID := uuid.NewString()
	for _, n := range c.pending {
		for _, s := range sides {
			c.order.Lines = append(c.order.Lines, BetLine{
				LineID:      uuid.NewString(),
				Number:      n,
				Kind:        s.kind,
				AmountCents: s.cents,
				BatchID:     batchID,
			})
		}
	}

	c.clearPendingLocked()
	return batchID, nil
}

// SetNote define a nota livre do pedido.
func (c *Composer) SetNote(note string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.note = note
}

// OrderSnapshot retorna uma cópia do pedido corrente (linhas + nota).
func (c *Composer) OrderSnapshot() Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]BetLine, len(c.order.Lines))
	copy(lines, c.order.Lines)
	return Order{Lines: lines, Note: c.note}
}

// RemoveBatch remove todas as linhas de um commit. Retorna quantas saíram.
func (c *Composer) RemoveBatch(batchID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(func(l BetLine) bool { return l.BatchID == batchID })
}

// RemoveLines remove linhas individuais pelos IDs (um grupo exibido aponta
// para as linhas da sua camada). Retorna quantas saíram.
func (c *Composer) RemoveLines(lineIDs []string) int {
	ids := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		ids[id] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(func(l BetLine) bool {
		_, ok := ids[l.LineID]
		return ok
	})
}

// SetRisk troca o snapshot de risco por inteiro. As linhas já lançadas não
// mudam de valor; apenas o estado de exibição é reavaliado na leitura.
func (c *Composer) SetRisk(s *RiskSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.risk = s
}

// CloseRound aplica o encerramento da rodada (push da administração ou
// expiração do countdown). Hard interrupt: edição em andamento é abandonada
// e novos commits passam a ser recusados.
func (c *Composer) CloseRound() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.clearPendingLocked()
}

func (c *Composer) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Composer) CloseAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeAt
}

// DisplayTotalCents soma as linhas do pedido excluindo as fechadas pelo
// snapshot de risco corrente (as linhas continuam no pedido para auditoria).
func (c *Composer) DisplayTotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var t int64
	for _, l := range c.order.Lines {
		if c.risk.Check(l.Number, l.Kind) == FlagClosed {
			continue
		}
		t += l.AmountCents
	}
	return t
}

// LineView é uma linha com o estado de risco resolvido no momento da leitura.
type LineView struct {
	BetLine
	Flag Flag
}

// Summary é a visão de revisão do pedido: grupos colapsados, linhas com
// flags e totais.
type Summary struct {
	Groups            []Group
	Lines             []LineView
	TotalCents        int64 // todas as linhas
	DisplayTotalCents int64 // excluindo fechadas
}

// Summarize monta a visão de revisão sob o snapshot de risco corrente.
func (c *Composer) Summarize() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{Groups: GroupLines(c.order.Lines)}
	for _, l := range c.order.Lines {
		flag := c.risk.Check(l.Number, l.Kind)
		s.Lines = append(s.Lines, LineView{BetLine: l, Flag: flag})
		s.TotalCents += l.AmountCents
		if flag != FlagClosed {
			s.DisplayTotalCents += l.AmountCents
		}
	}
	return s
}

// MarkSubmitted limpa o pedido local após o sink externo aceitar a submissão
// (a posse passa ao backend).
func (c *Composer) MarkSubmitted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = Order{}
	c.note = ""
}

// ClearOrder descarta o pedido inteiro (cancelamento explícito do operador
// ou rejeição permanente do sink).
func (c *Composer) ClearOrder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = Order{}
	c.note = ""
}

func (c *Composer) clearPendingLocked() {
	c.pending = nil
	c.inBuf = make(map[string]struct{})
	c.raw = ""
}

func (c *Composer) mergePendingLocked(numbers []string) {
	for _, n := range numbers {
		if _, ok := c.inBuf[n]; ok {
			continue
		}
		c.inBuf[n] = struct{}{}
		c.pending = append(c.pending, n)
	}
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c *Composer) removeLocked(match func(BetLine) bool) int {
	kept := c.order.Lines[:0]
	removed := 0
	for _, l := range c.order.Lines {
		if match(l) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	c.order.Lines = kept
	return removed
}
