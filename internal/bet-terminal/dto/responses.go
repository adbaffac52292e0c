package dto

import "time"

type SessionResponse struct {
	SessionID        string    `json:"session_id"`
	RoundID          string    `json:"round_id"`
	Tab              string    `json:"tab"`
	State            string    `json:"state"` // IDLE | EDITING | CLOSED
	RawInput         string    `json:"raw_input"`
	Pending          []string  `json:"pending"`
	CloseAt          time.Time `json:"close_at"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}

type CommitResponse struct {
	BatchID string `json:"batch_id"`
}

type KindAmountView struct {
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
}

type GroupView struct {
	BatchID string           `json:"batch_id"`
	Pairs   []KindAmountView `json:"pairs"`
	Numbers []string         `json:"numbers"`
	LineIDs []string         `json:"line_ids"`
}

type LineViewDTO struct {
	LineID      string `json:"line_id"`
	Number      string `json:"number"`
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
	BatchID     string `json:"batch_id"`
	RiskFlag    string `json:"risk_flag"` // NONE | HALF_PAY | CLOSED
}

type SummaryResponse struct {
	Groups            []GroupView   `json:"groups"`
	Lines             []LineViewDTO `json:"lines"`
	TotalCents        int64         `json:"total_cents"`
	DisplayTotalCents int64         `json:"display_total_cents"` // exclui linhas fechadas
	RemainingSeconds  int64         `json:"remaining_seconds"`
	State             string        `json:"state"`
}

type SubmitResponse struct {
	OrderID     string `json:"order_id"`
	ProviderRef string `json:"provider_ref"`
	Status      string `json:"status"` // SUBMITTED
}

type ErrorResponse struct {
	Error string `json:"error"`
}
