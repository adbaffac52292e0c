package dto

type CreateSessionRequest struct {
	RoundID string `json:"round_id"`
	Tab     string `json:"tab"` // TWO_DIGIT | THREE_DIGIT | RUNNING
}

type KeystrokeRequest struct {
	Digit string `json:"digit"`
}

type PatternRequest struct {
	Pattern string `json:"pattern"`
	Mode    string `json:"mode"` // IDENTITY | DIRECT_GATE | WIN_TWO | WIN_THREE
}

type SpecialSetRequest struct {
	Set string `json:"set"` // DOUBLE | SIBLING_PAIR | TRIPLE | DOUBLE_FRONT | DOUBLE_BACK | SANDWICH
}

type SwitchTabRequest struct {
	Tab string `json:"tab"`
}

type CommitRequest struct {
	TopCents    int64 `json:"top_cents"`
	BottomCents int64 `json:"bottom_cents"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

type RemoveGroupRequest struct {
	LineIDs []string `json:"line_ids"`
}

type CancelOrderRequest struct {
	ProviderRef string `json:"provider_ref"`
	OrderID     string `json:"order_id"`
}
