package events

import "time"

// Evento publicado no tópico "risk_updates" sempre que a mesa de risco
// fecha ou reabre um número (ou muda o pagamento para meio prêmio).
type RiskUpdate struct {
	RoundID   string    `json:"round_id"`
	Number    string    `json:"number"`
	RiskKind  string    `json:"risk_kind"` // "CLOSED" | "HALF_PAY" | "OPEN"
	Scope     string    `json:"scope"`     // bet kind específico ou "ALL"
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`  // "limits-admin-simulator"
	Version   int       `json:"version"` // incrementado a cada atualização
}
