package tournament

import (
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageSwiss    Stage = "swiss"
	StageBracket  Stage = "bracket"
	StageComplete Stage = "complete"
)

// Tournament is the authoritative stage/round state. The roster is fixed at
// creation; CurrentRound is 0-based and only ever moves forward. Score
// weights are persisted with the row so a recompute after a restart uses the
// weights the tournament was created with.
type Tournament struct {
	ID               uuid.UUID `db:"id"`
	OwnerID          uuid.UUID `db:"owner_id"`
	Stage            Stage     `db:"stage"`
	CurrentRound     int       `db:"current_round"`
	TotalSwissRounds int       `db:"total_swiss_rounds"`
	WinPoints        int       `db:"win_points"`
	DrawPoints       int       `db:"draw_points"`
	CreatedAt        time.Time `db:"created_at"`
}

func (t *Tournament) Complete() bool {
	return t.Stage == StageComplete
}
