package wager

import "fmt"

// RiskKind indica a restrição imposta pela mesa de risco a um número.
type RiskKind int

const (
	// RiskClosed: número fechado, não entra no total exibido
	RiskClosed RiskKind = iota
	// RiskHalfPay: número pago a meio prêmio
	RiskHalfPay
)

func (r RiskKind) String() string {
	if r == RiskClosed {
		return "CLOSED"
	}
	return "HALF_PAY"
}

// RiskScope restringe a entrada a um kind específico ou a todos (All).
type RiskScope struct {
	All  bool
	Kind Kind // válido quando All = false
}

// ScopeAll é o escopo que atinge qualquer kind do número.
var ScopeAll = RiskScope{All: true}

// ScopeOf cria um escopo para um kind específico.
func ScopeOf(k Kind) RiskScope { return RiskScope{Kind: k} }

// String retorna o código de wire do escopo ("ALL" ou o código do kind).
func (s RiskScope) String() string {
	if s.All {
		return "ALL"
	}
	return s.Kind.String()
}

// ParseScope converte o código de wire do escopo.
func ParseScope(v string) (RiskScope, error) {
	if v == "ALL" {
		return ScopeAll, nil
	}
	k, err := ParseKind(v)
	if err != nil {
		return RiskScope{}, err
	}
	return ScopeOf(k), nil
}

// ParseRiskKind converte o código de wire da restrição.
func ParseRiskKind(v string) (RiskKind, error) {
	switch v {
	case "CLOSED":
		return RiskClosed, nil
	case "HALF_PAY":
		return RiskHalfPay, nil
	}
	return 0, fmt.Errorf("unknown risk kind %q", v)
}

// RiskEntry é uma restrição externa sobre (número, escopo).
type RiskEntry struct {
	Number string
	Kind   RiskKind
	Scope  RiskScope
}

// Flag é o estado de risco efetivo de uma linha no momento da leitura.
type Flag int

const (
	FlagNone Flag = iota
	FlagHalfPay
	FlagClosed
)

func (f Flag) String() string {
	switch f {
	case FlagClosed:
		return "CLOSED"
	case FlagHalfPay:
		return "HALF_PAY"
	}
	return "NONE"
}

// RiskSnapshot é o snapshot imutável da tabela de risco. Substituído por
// inteiro a cada refresh (nunca alterado campo a campo), então leituras
// concorrentes nunca observam estado intermediário.
type RiskSnapshot struct {
	byNumber map[string][]RiskEntry
}

// NewRiskSnapshot monta o snapshot indexado por número.
func NewRiskSnapshot(entries []RiskEntry) *RiskSnapshot {
	s := &RiskSnapshot{byNumber: make(map[string][]RiskEntry, len(entries))}
	for _, e := range entries {
		s.byNumber[e.Number] = append(s.byNumber[e.Number], e)
	}
	return s
}

// Check resolve o estado efetivo de (número, kind). Podem casar várias
// entradas; Closed tem precedência sobre HalfPay.
func (s *RiskSnapshot) Check(number string, k Kind) Flag {
	if s == nil {
		return FlagNone
	}
	flag := FlagNone
	for _, e := range s.byNumber[number] {
		if !e.Scope.All && e.Scope.Kind != k {
			continue
		}
		if e.Kind == RiskClosed {
			return FlagClosed
		}
		flag = FlagHalfPay
	}
	return flag
}

// Len retorna o número de entradas do snapshot.
func (s *RiskSnapshot) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, es := range s.byNumber {
		n += len(es)
	}
	return n
}
