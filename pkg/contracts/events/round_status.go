package events

import "time"

// Evento publicado no tópico "round_status" quando uma rodada é aberta ou
// encerrada pela administração. O encerramento é um hard interrupt para os
// terminais: sessões em edição são abandonadas.
type RoundStatus struct {
	RoundID string    `json:"round_id"`
	Active  bool      `json:"active"`
	Reason  string    `json:"reason,omitempty"` // ex: "admin_close"
	Ts      time.Time `json:"ts"`
}
