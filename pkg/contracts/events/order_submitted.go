package events

// Linha de aposta dentro de um pedido submetido.
type OrderLine struct {
	Number      string `json:"number"`
	Kind        string `json:"kind"` // TWO_UP, TWO_DOWN, THREE_TOP, THREE_TOD, RUN_UP, RUN_DOWN
	AmountCents int64  `json:"amount_cents"`
}

// Evento emitido pelo bet-terminal após o sink externo aceitar um pedido.
type OrderSubmitted struct {
	OrderID   string      `json:"order_id"`
	SessionID string      `json:"session_id"`
	RoundID   string      `json:"round_id"`
	Lines     []OrderLine `json:"lines"`
	Note      string      `json:"note,omitempty"`
	TsUnixMs  int64       `json:"ts_unix_ms"`
}
