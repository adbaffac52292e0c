package wager

import "testing"

func TestRiskCheckScopes(t *testing.T) {
	s := NewRiskSnapshot([]RiskEntry{
		{Number: "12", Kind: RiskClosed, Scope: ScopeAll},
		{Number: "34", Kind: RiskHalfPay, Scope: ScopeOf(TwoUp)},
		{Number: "56", Kind: RiskClosed, Scope: ScopeOf(TwoDown)},
	})

	cases := []struct {
		number string
		kind   Kind
		want   Flag
	}{
		{"12", TwoUp, FlagClosed},   // escopo All atinge qualquer kind
		{"12", ThreeTop, FlagClosed},
		{"34", TwoUp, FlagHalfPay},
		{"34", TwoDown, FlagNone}, // escopo específico não vaza para outro kind
		{"56", TwoDown, FlagClosed},
		{"56", TwoUp, FlagNone},
		{"99", TwoUp, FlagNone},
	}
	for _, c := range cases {
		if got := s.Check(c.number, c.kind); got != c.want {
			t.Errorf("Check(%s, %s) = %v, want %v", c.number, c.kind, got, c.want)
		}
	}
}

func TestRiskClosedPrecedence(t *testing.T) {
	// Closed e HalfPay casando o mesmo par: Closed vence
	s := NewRiskSnapshot([]RiskEntry{
		{Number: "12", Kind: RiskHalfPay, Scope: ScopeAll},
		{Number: "12", Kind: RiskClosed, Scope: ScopeOf(TwoUp)},
	})

	if got := s.Check("12", TwoUp); got != FlagClosed {
		t.Errorf("Check(12, TwoUp) = %v, want CLOSED", got)
	}
	if got := s.Check("12", TwoDown); got != FlagHalfPay {
		t.Errorf("Check(12, TwoDown) = %v, want HALF_PAY", got)
	}
}

func TestRiskNilSnapshot(t *testing.T) {
	var s *RiskSnapshot
	if got := s.Check("12", TwoUp); got != FlagNone {
		t.Errorf("nil snapshot Check = %v, want NONE", got)
	}
	if got := s.Len(); got != 0 {
		t.Errorf("nil snapshot Len = %d, want 0", got)
	}
}

func TestRateTableValidate(t *testing.T) {
	ok := RateTable{TwoUp: {PayMultiplier: 70, MinCents: 100, MaxCents: 10000}}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid table rejected: %v", err)
	}

	bad := RateTable{TwoUp: {PayMultiplier: 70, MinCents: 0}}
	if err := bad.Validate(); err == nil {
		t.Errorf("min 0 accepted, want error")
	}

	inverted := RateTable{TwoUp: {PayMultiplier: 70, MinCents: 100, MaxCents: 50}}
	if err := inverted.Validate(); err == nil {
		t.Errorf("max < min accepted, want error")
	}
}
