package topics

const (
	// Risco/limites
	RiskUpdates = "risk_updates"

	// Rodadas
	RoundStatus = "round_status"

	// Pedidos
	OrderSubmitted = "order_submitted"

	// DLQs
	RiskUpdatesDLQ = "risk_updates_dlq"
)
