package wager

// BetLine é uma aposta individual precificada. Imutável depois de criada;
// pertence exclusivamente ao Order até ser removida.
type BetLine struct {
	LineID      string // identidade local, permite remover uma instância por vez
	Number      string
	Kind        Kind
	AmountCents int64
	BatchID     string // compartilhado por todas as linhas de um mesmo commit
}

// Order é o conjunto finalizado de linhas mais a nota livre, submetido como
// unidade atômica ao sink externo.
type Order struct {
	Lines []BetLine
	Note  string
}

// TotalCents soma todas as linhas, sem considerar o overlay de risco.
func (o Order) TotalCents() int64 {
	var t int64
	for _, l := range o.Lines {
		t += l.AmountCents
	}
	return t
}
