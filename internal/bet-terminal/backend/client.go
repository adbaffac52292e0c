package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/wager"
)

// Client fala com o sink externo de submissão/cancelamento de pedidos.
// O núcleo repassa o motivo de rejeição sem interpretá-lo.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type submitLine struct {
	Number      string `json:"number"`
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
}

type submitRequest struct {
	OrderID string       `json:"order_id"`
	RoundID string       `json:"round_id"`
	Lines   []submitLine `json:"lines"`
	Note    string       `json:"note,omitempty"`
}

type submitResponse struct {
	Status      string `json:"status"` // "CONFIRMED" | "REJECTED"
	Reason      string `json:"reason,omitempty"`
	Permanent   bool   `json:"permanent,omitempty"`
	ProviderRef string `json:"provider_ref,omitempty"`
}

// Submit envia o pedido finalizado. Retorna o identificador opaco do backend
// no sucesso; rejeição de negócio vira SubmissionRejectedError com o motivo
// verbatim do sink.
func (c *Client) Submit(ctx context.Context, orderID, roundID string, lines []wager.BetLine, note string) (string, error) {
	req := submitRequest{OrderID: orderID, RoundID: roundID, Note: note}
	for _, l := range lines {
		req.Lines = append(req.Lines, submitLine{Number: l.Number, Kind: l.Kind.String(), AmountCents: l.AmountCents})
	}

	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders/confirm", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("backend confirm http %d", res.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Status != "CONFIRMED" {
		return "", &wager.SubmissionRejectedError{Reason: out.Reason, Permanent: out.Permanent}
	}
	return out.ProviderRef, nil
}

type cancelRequest struct {
	ProviderRef string `json:"provider_ref"`
}

type cancelResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Cancel pede a reversão de um pedido já submetido. O núcleo não cuida do
// estorno de saldo, só reporta o resultado do sink.
func (c *Client) Cancel(ctx context.Context, providerRef string) error {
	body, _ := json.Marshal(cancelRequest{ProviderRef: providerRef})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders/cancel", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("backend cancel http %d", res.StatusCode)
	}

	var out cancelResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return err
	}
	if out.Status != "CANCELLED" {
		return fmt.Errorf("cancel refused: %s", out.Reason)
	}
	return nil
}
