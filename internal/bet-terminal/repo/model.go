package repo

import (
	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/round"
)

// Round é o descritor de rodada persistido no Postgres.
type Round struct {
	ID       string
	Product  string
	Active   bool
	Schedule round.Schedule
}
