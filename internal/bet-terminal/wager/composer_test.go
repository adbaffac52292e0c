package wager

import (
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/engine"
)

func testRates() RateTable {
	return RateTable{
		TwoUp:    {PayMultiplier: 70, MinCents: 100, MaxCents: 10000},
		TwoDown:  {PayMultiplier: 70, MinCents: 100, MaxCents: 10000},
		ThreeTop: {PayMultiplier: 500, MinCents: 100, MaxCents: 5000},
		ThreeTod: {PayMultiplier: 100, MinCents: 100, MaxCents: 0}, // sem teto
		RunUp:    {PayMultiplier: 3, MinCents: 100, MaxCents: 10000},
		RunDown:  {PayMultiplier: 4, MinCents: 100, MaxCents: 10000},
	}
}

func newTestComposer(tab Tab) *Composer {
	return NewComposer(tab, testRates(), NewRiskSnapshot(nil), time.Time{})
}

func TestKeystrokeAutoExpands(t *testing.T) {
	c := newTestComposer(TabTwoDigit)

	if err := c.Keystroke("1"); err != nil {
		t.Fatalf("Keystroke(1): %v", err)
	}
	if got := c.State(); got != StateEditing {
		t.Errorf("state after first digit = %v, want EDITING", got)
	}
	if err := c.Keystroke("2"); err != nil {
		t.Fatalf("Keystroke(2): %v", err)
	}

	if got := c.Pending(); !reflect.DeepEqual(got, []string{"12"}) {
		t.Errorf("pending = %v, want [12]", got)
	}
	if c.RawInput() != "" {
		t.Errorf("raw input not cleared after auto expansion")
	}
	if got := c.State(); got != StateIdle {
		t.Errorf("state after expansion = %v, want IDLE", got)
	}
}

func TestKeystrokeRejectsNonDigit(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	err := c.Keystroke("x")
	var ife *InputFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("Keystroke(x) error = %v, want InputFormatError", err)
	}
	if c.RawInput() != "" || len(c.Pending()) != 0 {
		t.Errorf("state mutated by invalid keystroke")
	}
}

func TestApplyPatternInvalidKeepsState(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.Keystroke("1")
	_ = c.Keystroke("2")

	err := c.ApplyPattern("12", engine.ModeDirectGate) // gate exige 1 dígito
	var ife *InputFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("error = %v, want InputFormatError", err)
	}
	if got := c.Pending(); !reflect.DeepEqual(got, []string{"12"}) {
		t.Errorf("pending mutated by invalid pattern: %v", got)
	}
}

func TestApplyPatternIdentityValidatesAgainstTab(t *testing.T) {
	c := newTestComposer(TabTwoDigit)

	cases := []struct {
		name    string
		pattern string
	}{
		{"charset inválido", "abcde"},
		{"comprimento maior que a aba", "123"},
		{"comprimento menor que a aba", "1"},
		{"vazio", ""},
	}
	for _, tc := range cases {
		err := c.ApplyPattern(tc.pattern, engine.ModeIdentity)
		var ife *InputFormatError
		if !errors.As(err, &ife) {
			t.Errorf("%s: ApplyPattern(%q) error = %v, want InputFormatError", tc.name, tc.pattern, err)
		}
		if len(c.Pending()) != 0 {
			t.Errorf("%s: invalid identity pattern entered the buffer: %v", tc.name, c.Pending())
		}
	}

	// nenhum padrão inválido vira linha de aposta
	if _, err := c.Commit(100, 0); !errors.Is(err, ErrEmptyCommit) {
		t.Errorf("Commit after invalid patterns error = %v, want ErrEmptyCommit", err)
	}

	if err := c.ApplyPattern("12", engine.ModeIdentity); err != nil {
		t.Fatalf("ApplyPattern(12): %v", err)
	}
	if got := c.Pending(); !reflect.DeepEqual(got, []string{"12"}) {
		t.Errorf("pending = %v, want [12]", got)
	}
}

func TestApplyPatternMergesDeduplicated(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	if err := c.ApplyPattern("112", engine.ModeWinTwo); err != nil {
		t.Fatalf("ApplyPattern: %v", err)
	}
	if err := c.ApplyPattern("12", engine.ModeIdentity); err != nil {
		t.Fatalf("ApplyPattern identity: %v", err)
	}
	// "12" já está no buffer: não duplica
	if got := c.Pending(); !reflect.DeepEqual(got, []string{"12", "21"}) {
		t.Errorf("pending = %v, want [12 21]", got)
	}
}

func TestReverse(t *testing.T) {
	c := newTestComposer(TabThreeDigit)
	if err := c.ApplyPattern("123", engine.ModeIdentity); err != nil {
		t.Fatalf("ApplyPattern: %v", err)
	}

	c.Reverse()
	if got := len(c.Pending()); got != 6 {
		t.Errorf("pending after reverse = %d numbers, want 6", got)
	}

	// reaplicar sobre o conjunto já permutado é no-op
	before := c.Pending()
	c.Reverse()
	after := c.Pending()
	sortBoth2(before, after)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("second reverse changed the buffer: %v -> %v", before, after)
	}
}

func TestReverseSingleRepeatedDigit(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("55", engine.ModeIdentity)
	c.Reverse()
	if got := c.Pending(); !reflect.DeepEqual(got, []string{"55"}) {
		t.Errorf("Reverse({55}) = %v, want [55]", got)
	}
}

func TestCommitCreatesBatch(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)
	_ = c.ApplyPattern("34", engine.ModeIdentity)

	batchID, err := c.Commit(100, 50)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if batchID == "" {
		t.Fatalf("empty batch id")
	}

	lines := c.OrderSnapshot().Lines
	if len(lines) != 4 {
		t.Fatalf("committed %d lines, want 4", len(lines))
	}
	for _, l := range lines {
		if l.BatchID != batchID {
			t.Errorf("line %s has batch %s, want %s", l.Number, l.BatchID, batchID)
		}
	}

	// buffer e entrada limpos após o commit
	if len(c.Pending()) != 0 || c.RawInput() != "" {
		t.Errorf("pending selection not cleared after commit")
	}

	// os 4 lançamentos com kinds/valores iguais colapsam num único grupo
	groups := GroupLines(lines)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Numbers, []string{"12", "34"}) {
		t.Errorf("group numbers = %v, want [12 34]", groups[0].Numbers)
	}
}

func TestCommitAtomicOnLimitViolation(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)
	_ = c.ApplyPattern("34", engine.ModeIdentity)

	// teto de TwoUp é 10000
	_, err := c.Commit(20000, 50)
	var lve *LimitViolationError
	if !errors.As(err, &lve) {
		t.Fatalf("error = %v, want LimitViolationError", err)
	}
	if !lve.Above || lve.Kind != TwoUp || lve.BoundCents != 10000 {
		t.Errorf("violation = %+v, want above max 10000 for TwoUp", lve)
	}
	if got := len(c.OrderSnapshot().Lines); got != 0 {
		t.Errorf("commit not atomic: %d lines created", got)
	}
	// buffer preservado para o operador corrigir o preço
	if got := len(c.Pending()); got != 2 {
		t.Errorf("pending lost on rejected commit: %d numbers", got)
	}
}

func TestCommitBelowMin(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)

	_, err := c.Commit(0, 50) // min de TwoDown é 100
	var lve *LimitViolationError
	if !errors.As(err, &lve) {
		t.Fatalf("error = %v, want LimitViolationError", err)
	}
	if lve.Above || lve.Kind != TwoDown {
		t.Errorf("violation = %+v, want below min for TwoDown", lve)
	}
}

func TestCommitEmpty(t *testing.T) {
	c := newTestComposer(TabTwoDigit)

	if _, err := c.Commit(100, 50); !errors.Is(err, ErrEmptyCommit) {
		t.Errorf("commit without numbers: err = %v, want ErrEmptyCommit", err)
	}

	_ = c.ApplyPattern("12", engine.ModeIdentity)
	if _, err := c.Commit(0, 0); !errors.Is(err, ErrEmptyCommit) {
		t.Errorf("commit without price: err = %v, want ErrEmptyCommit", err)
	}
}

func TestCommitAfterCloseInstant(t *testing.T) {
	closeAt := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	c := NewComposer(TabTwoDigit, testRates(), NewRiskSnapshot(nil), closeAt)
	c.now = func() time.Time { return time.Date(2025, 3, 10, 15, 31, 0, 0, time.UTC) }

	_ = c.ApplyPattern("12", engine.ModeIdentity)
	if _, err := c.Commit(100, 0); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("commit past close: err = %v, want ErrRoundClosed", err)
	}
	if c.State() != StateClosed {
		t.Errorf("session not terminal after close, state = %v", c.State())
	}
}

func TestCloseRoundHardInterrupt(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.Keystroke("1")
	_ = c.ApplyPattern("34", engine.ModeIdentity)

	c.CloseRound()

	if len(c.Pending()) != 0 || c.RawInput() != "" {
		t.Errorf("editing state not abandoned on round close")
	}
	if _, err := c.Commit(100, 0); !errors.Is(err, ErrRoundClosed) {
		t.Errorf("commit after close: err = %v, want ErrRoundClosed", err)
	}
	if err := c.Keystroke("5"); !errors.Is(err, ErrRoundClosed) {
		t.Errorf("keystroke after close: err = %v, want ErrRoundClosed", err)
	}
}

func TestSwitchTabClearsPending(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)

	c.SwitchTab(TabThreeDigit)
	if len(c.Pending()) != 0 {
		t.Errorf("pending survived tab switch")
	}
	top, bottom := c.Tab().Sides()
	if top != ThreeTop || bottom != ThreeTod {
		t.Errorf("sides after switch = %v/%v, want THREE_TOP/THREE_TOD", top, bottom)
	}
}

func TestRemoveBatchAndLines(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)
	b1, _ := c.Commit(100, 0)
	_ = c.ApplyPattern("34", engine.ModeIdentity)
	_, _ = c.Commit(200, 0)

	if got := c.RemoveBatch(b1); got != 1 {
		t.Errorf("RemoveBatch removed %d lines, want 1", got)
	}
	lines := c.OrderSnapshot().Lines
	if len(lines) != 1 || lines[0].Number != "34" {
		t.Fatalf("remaining lines = %v, want single 34", lines)
	}

	if got := c.RemoveLines([]string{lines[0].LineID}); got != 1 {
		t.Errorf("RemoveLines removed %d lines, want 1", got)
	}
	if got := len(c.OrderSnapshot().Lines); got != 0 {
		t.Errorf("%d lines left after removal, want 0", got)
	}
}

func TestRiskOverlayExcludesClosedFromTotal(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)
	_ = c.ApplyPattern("34", engine.ModeIdentity)
	_, _ = c.Commit(100, 50)

	if got := c.DisplayTotalCents(); got != 300 {
		t.Fatalf("total before risk = %d, want 300", got)
	}

	// fecha o número 12 para todos os kinds
	c.SetRisk(NewRiskSnapshot([]RiskEntry{
		{Number: "12", Kind: RiskClosed, Scope: ScopeAll},
	}))

	if got := c.DisplayTotalCents(); got != 150 {
		t.Errorf("display total = %d, want 150 (12 closed)", got)
	}
	// as linhas fechadas permanecem no pedido para auditoria
	if got := len(c.OrderSnapshot().Lines); got != 4 {
		t.Errorf("order has %d lines, want 4", got)
	}

	sum := c.Summarize()
	if sum.TotalCents != 300 || sum.DisplayTotalCents != 150 {
		t.Errorf("summary totals = %d/%d, want 300/150", sum.TotalCents, sum.DisplayTotalCents)
	}
	for _, lv := range sum.Lines {
		want := FlagNone
		if lv.Number == "12" {
			want = FlagClosed
		}
		if lv.Flag != want {
			t.Errorf("line %s/%s flag = %v, want %v", lv.Number, lv.Kind, lv.Flag, want)
		}
	}
}

func TestMarkSubmittedClearsOrder(t *testing.T) {
	c := newTestComposer(TabTwoDigit)
	_ = c.ApplyPattern("12", engine.ModeIdentity)
	_, _ = c.Commit(100, 0)
	c.SetNote("balcão 3")

	c.MarkSubmitted()
	ord := c.OrderSnapshot()
	if len(ord.Lines) != 0 || ord.Note != "" {
		t.Errorf("order not cleared after submission ack: %+v", ord)
	}
}

func sortBoth2(a, b []string) {
	sort.Strings(a)
	sort.Strings(b)
}
