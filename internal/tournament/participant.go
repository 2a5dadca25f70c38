package tournament

import "github.com/google/uuid"

// ParticipantID is a species slug, e.g. "snorlax". Slugs are compared
// lexicographically wherever a deterministic order is needed.
type ParticipantID string

// ByeOpponent is the placeholder opponent stored for a bye round.
const ByeOpponent ParticipantID = ""

type Participant struct {
	TournamentID uuid.UUID     `db:"tournament_id"`
	ID           ParticipantID `db:"id"`
	Score        int           `db:"score"`
	Wins         int           `db:"wins"`
	Losses       int           `db:"losses"`
	Draws        int           `db:"draws"`
}
