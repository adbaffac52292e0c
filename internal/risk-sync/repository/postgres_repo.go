package repository

import (
	"context"
	"database/sql"

	"github.com/radieske/lotto-bet-platform-poc/pkg/contracts/events"
)

// PostgresRepo mantém a tabela de risco corrente e o histórico de mudanças.
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertCurrent aplica uma atualização de risco na tabela risk_current.
// RiskKind "OPEN" remove a restrição; os demais inserem/atualizam a linha
// de (round, número, escopo) via ON CONFLICT.
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, e events.RiskUpdate) error {
	if e.RiskKind == "OPEN" {
		_, err := r.DB.ExecContext(ctx, `
			DELETE FROM risk_current WHERE round_id=$1 AND number=$2 AND scope=$3`,
			e.RoundID, e.Number, e.Scope,
		)
		return err
	}

	const q = `
		INSERT INTO risk_current (round_id, number, risk_kind, scope, version, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (round_id, number, scope) DO UPDATE SET
		  risk_kind  = EXCLUDED.risk_kind,
		  version    = EXCLUDED.version,
		  updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.RoundID, e.Number, e.RiskKind, e.Scope, e.Version, e.UpdatedAt,
	)
	return err
}

// InsertHistory registra a mudança na tabela risk_history.
func (r *PostgresRepo) InsertHistory(ctx context.Context, e events.RiskUpdate) error {
	const q = `
		INSERT INTO risk_history (round_id, number, risk_kind, scope, version, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.RoundID, e.Number, e.RiskKind, e.Scope, e.Version, e.UpdatedAt,
	)
	return err
}

// CurrentEntries lê a tabela corrente da rodada para regravar o cache.
func (r *PostgresRepo) CurrentEntries(ctx context.Context, roundID string) ([]events.RiskUpdate, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT round_id, number, risk_kind, scope FROM risk_current WHERE round_id=$1`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.RiskUpdate
	for rows.Next() {
		var e events.RiskUpdate
		if err := rows.Scan(&e.RoundID, &e.Number, &e.RiskKind, &e.Scope); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateRoundActive aplica um push de status de rodada no descritor.
func (r *PostgresRepo) UpdateRoundActive(ctx context.Context, roundID string, active bool) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE rounds SET active=$2 WHERE id=$1`, roundID, active)
	return err
}
