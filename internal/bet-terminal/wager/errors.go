package wager

import (
	"errors"
	"fmt"
)

// Erros recuperáveis localmente; nada aqui derruba o processo.
var (
	// ErrEmptyCommit: commit sem números pendentes ou sem preço positivo
	ErrEmptyCommit = errors.New("nothing to commit: empty selection or no positive price")

	// ErrRoundClosed: rodada encerrada ou inativa; terminal para a sessão
	ErrRoundClosed = errors.New("round is closed")
)

// InputFormatError indica padrão com tamanho ou charset inválido para o modo
// ativo. Nenhum estado é alterado.
type InputFormatError struct {
	Pattern string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid pattern %q for the active mode", e.Pattern)
}

// LimitViolationError indica valor fora dos limites da tabela de taxas para
// um kind. O commit inteiro é rejeitado.
type LimitViolationError struct {
	Kind        Kind
	AmountCents int64
	BoundCents  int64
	Above       bool // true = estourou o teto, false = abaixo do mínimo
}

func (e *LimitViolationError) Error() string {
	if e.Above {
		return fmt.Sprintf("%s: amount %d above max %d", e.Kind.Label(), e.AmountCents, e.BoundCents)
	}
	return fmt.Sprintf("%s: amount %d below min %d", e.Kind.Label(), e.AmountCents, e.BoundCents)
}

// SubmissionRejectedError carrega o motivo devolvido pelo sink externo.
// Permanent indica que o pedido é inválido em definitivo e deve ser limpo.
type SubmissionRejectedError struct {
	Reason    string
	Permanent bool
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Reason)
}
