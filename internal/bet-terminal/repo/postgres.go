package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/round"
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/wager"
)

// Postgres implementa as leituras de rodada/taxas/risco e a persistência de
// pedidos aceitos pelo sink externo.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório do terminal.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// GetRound carrega o descritor da rodada (identidade, agenda, flag ativa).
func (p *Postgres) GetRound(ctx context.Context, roundID string) (*Round, error) {
	var (
		r         Round
		openTime  string
		closeTime string
		weekdays  sql.NullString
		kind      string
		closeDays sql.NullString
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, product, active, open_time, close_time, open_weekdays, schedule_kind, close_days
		FROM rounds WHERE id=$1`, roundID,
	).Scan(&r.ID, &r.Product, &r.Active, &openTime, &closeTime, &weekdays, &kind, &closeDays)
	if err != nil {
		return nil, err
	}

	if r.Schedule.OpenTime, err = round.ParseTimeOfDay(openTime); err != nil {
		return nil, err
	}
	if r.Schedule.CloseTime, err = round.ParseTimeOfDay(closeTime); err != nil {
		return nil, err
	}
	if r.Schedule.OpenWeekdays, err = parseWeekdays(weekdays.String); err != nil {
		return nil, err
	}

	switch kind {
	case "MONTHLY":
		r.Schedule.Kind = round.KindMonthly
		if r.Schedule.CloseDaysOfMonth, err = parseDays(closeDays.String); err != nil {
			return nil, err
		}
		if len(r.Schedule.CloseDaysOfMonth) == 0 {
			return nil, fmt.Errorf("round %s: monthly schedule without close days", roundID)
		}
	case "DAILY":
		r.Schedule.Kind = round.KindDaily
	default:
		return nil, fmt.Errorf("round %s: unknown schedule kind %q", roundID, kind)
	}

	return &r, nil
}

// GetRates carrega a tabela de taxas da rodada, validando os invariantes.
func (p *Postgres) GetRates(ctx context.Context, roundID string) (wager.RateTable, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT kind, pay_multiplier, min_cents, max_cents
		FROM round_rates WHERE round_id=$1`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rt := make(wager.RateTable)
	for rows.Next() {
		var (
			kindStr string
			entry   wager.RateEntry
			max     sql.NullInt64
		)
		if err := rows.Scan(&kindStr, &entry.PayMultiplier, &entry.MinCents, &max); err != nil {
			return nil, err
		}
		if max.Valid {
			entry.MaxCents = max.Int64
		}
		kind, err := wager.ParseKind(kindStr)
		if err != nil {
			return nil, err
		}
		rt[kind] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := rt.Validate(); err != nil {
		return nil, fmt.Errorf("round %s: %w", roundID, err)
	}
	return rt, nil
}

// GetRiskEntries carrega a tabela de risco corrente da rodada (mantida pelo
// risk-sync-worker).
func (p *Postgres) GetRiskEntries(ctx context.Context, roundID string) ([]wager.RiskEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT number, risk_kind, scope
		FROM risk_current WHERE round_id=$1`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []wager.RiskEntry
	for rows.Next() {
		var number, kindStr, scopeStr string
		if err := rows.Scan(&number, &kindStr, &scopeStr); err != nil {
			return nil, err
		}
		kind, err := wager.ParseRiskKind(kindStr)
		if err != nil {
			return nil, err
		}
		scope, err := wager.ParseScope(scopeStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, wager.RiskEntry{Number: number, Kind: kind, Scope: scope})
	}
	return entries, rows.Err()
}

// SaveSubmittedOrder grava o pedido aceito pelo sink (status SUBMITTED) com
// suas linhas, numa transação.
func (p *Postgres) SaveSubmittedOrder(ctx context.Context, orderID, sessionID, roundID, note string, lines []wager.BetLine) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, session_id, round_id, note, status, created_at)
		VALUES ($1,$2,$3,$4,'SUBMITTED',$5)`,
		orderID, sessionID, roundID, note, time.Now().UTC(),
	); err != nil {
		return err
	}

	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, number, kind, amount_cents, batch_id)
			VALUES ($1,$2,$3,$4,$5)`,
			orderID, l.Number, l.Kind.String(), l.AmountCents, l.BatchID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MarkOrderCancelled marca um pedido previamente submetido como cancelado.
func (p *Postgres) MarkOrderCancelled(ctx context.Context, orderID string) error {
	_, err := p.db.ExecContext(ctx, `UPDATE orders SET status='CANCELLED' WHERE id=$1`, orderID)
	return err
}

var weekdayCodes = map[string]time.Weekday{
	"SUN": time.Sunday, "MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday,
	"THU": time.Thursday, "FRI": time.Friday, "SAT": time.Saturday,
}

// parseWeekdays lê "MON,TUE,..."; vazio significa todos os dias.
func parseWeekdays(s string) (map[time.Weekday]bool, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		d, ok := weekdayCodes[strings.TrimSpace(part)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		out[d] = true
	}
	return out, nil
}

// parseDays lê "1,16" em ordem crescente.
func parseDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse close day %q: %w", part, err)
		}
		if d < 1 || d > 31 {
			return nil, fmt.Errorf("close day %d out of range", d)
		}
		out = append(out, d)
	}
	for i := 1; i < len(out); i++ {
		if out[i] <= out[i-1] {
			return nil, fmt.Errorf("close days not sorted ascending: %v", out)
		}
	}
	return out, nil
}
