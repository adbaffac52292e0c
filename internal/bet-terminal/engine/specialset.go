package engine

// SpecialSet identifica uma enumeração fechada de números sobre os dígitos
// 0–9, independente da entrada do operador.
type SpecialSet int

const (
	// SetDouble: os 10 números de 2 dígitos com ambos iguais (00..99)
	SetDouble SpecialSet = iota
	// SetSiblingPair: os 20 números formados pelos pares adjacentes {01,12,...,90} nas duas ordens
	SetSiblingPair
	// SetTriple: os 10 números de 3 dígitos com todos iguais (000..999)
	SetTriple
	// SetDoubleFront: os 100 números no formato AAB
	SetDoubleFront
	// SetDoubleBack: os 100 números no formato ABB
	SetDoubleBack
	// SetSandwich: os 100 números no formato ABA
	SetSandwich
)

// Generate produz a enumeração fixa do conjunto pedido. Determinístico,
// sem modo de falha.
func Generate(kind SpecialSet) []string {
	switch kind {
	case SetDouble:
		out := make([]string, 0, 10)
		for d := byte('0'); d <= '9'; d++ {
			out = append(out, string([]byte{d, d}))
		}
		return out

	case SetSiblingPair:
		out := make([]string, 0, 20)
		for a := 0; a < 10; a++ {
			b := (a + 1) % 10
			da, db := byte('0'+a), byte('0'+b)
			out = append(out, string([]byte{da, db}), string([]byte{db, da}))
		}
		return out

	case SetTriple:
		out := make([]string, 0, 10)
		for d := byte('0'); d <= '9'; d++ {
			out = append(out, string([]byte{d, d, d}))
		}
		return out

	case SetDoubleFront:
		return shape3(func(a, b byte) []byte { return []byte{a, a, b} })

	case SetDoubleBack:
		return shape3(func(a, b byte) []byte { return []byte{a, b, b} })

	case SetSandwich:
		return shape3(func(a, b byte) []byte { return []byte{a, b, a} })
	}

	return nil
}

// shape3 enumera os 100 números de 3 dígitos gerados por um molde (a, b).
func shape3(mold func(a, b byte) []byte) []string {
	out := make([]string, 0, 100)
	for a := byte('0'); a <= '9'; a++ {
		for b := byte('0'); b <= '9'; b++ {
			out = append(out, string(mold(a, b)))
		}
	}
	return out
}
