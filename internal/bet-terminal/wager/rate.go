package wager

import "fmt"

// RateEntry traz o multiplicador de pagamento e os limites monetários de um
// kind, fornecidos pelo backend por rodada. Snapshot somente-leitura durante
// a sessão. MaxCents = 0 significa sem teto.
type RateEntry struct {
	PayMultiplier float64
	MinCents      int64
	MaxCents      int64
}

// RateTable indexa as entradas de taxa por kind.
type RateTable map[Kind]RateEntry

// Validate confere os invariantes do snapshot: MinCents >= 1 e, quando há
// teto, MaxCents >= MinCents.
func (rt RateTable) Validate() error {
	for k, e := range rt {
		if e.MinCents < 1 {
			return fmt.Errorf("rate for %s: min %d < 1", k, e.MinCents)
		}
		if e.MaxCents != 0 && e.MaxCents < e.MinCents {
			return fmt.Errorf("rate for %s: max %d < min %d", k, e.MaxCents, e.MinCents)
		}
	}
	return nil
}
