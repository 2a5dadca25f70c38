package bracket

import (
	"time"

	"github.com/google/uuid"

	"github.com/simbachu/monrank/internal/tournament"
)

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchFinished MatchStatus = "finished"
)

type Side string

const (
	WinnersSide Side = "winners"
	LosersSide  Side = "losers"
	FinalsSide  Side = "finals"
)

// Match is one bracket slot. Contestants populate lazily as feeder matches
// resolve; the winner/loser next pointers form the static advancement graph
// built at seeding time. A finished match with a nil WinnerSlot delivered
// nobody (both feeds dried up), which keeps downstream bye detection simple.
type Match struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	Side  Side `db:"bracket_side"`
	Round int  `db:"round_number"`
	Order int  `db:"match_order"`

	Slot1 *tournament.ParticipantID `db:"slot_1"`
	Slot2 *tournament.ParticipantID `db:"slot_2"`

	WinnerSlot *int        `db:"winner_slot"`
	Status     MatchStatus `db:"status"`

	WinnerNextMatchID *uuid.UUID `db:"winner_next_match_id"`
	WinnerNextSlot    *int       `db:"winner_next_slot"`

	LoserNextMatchID *uuid.UUID `db:"loser_next_match_id"`
	LoserNextSlot    *int       `db:"loser_next_slot"`

	IsBye bool `db:"is_bye"`

	CreatedAt time.Time `db:"created_at"`
}

func (m *Match) participant(slot int) *tournament.ParticipantID {
	if slot == 1 {
		return m.Slot1
	}
	return m.Slot2
}

func (m *Match) setParticipant(slot int, p tournament.ParticipantID) {
	if slot == 1 {
		m.Slot1 = &p
	} else {
		m.Slot2 = &p
	}
}

func (m *Match) Winner() *tournament.ParticipantID {
	if m.Status != MatchFinished || m.WinnerSlot == nil {
		return nil
	}
	return m.participant(*m.WinnerSlot)
}

// Loser is nil for pending matches, byes and dried-up slots.
func (m *Match) Loser() *tournament.ParticipantID {
	if m.Status != MatchFinished || m.WinnerSlot == nil {
		return nil
	}
	if *m.WinnerSlot == 1 {
		return m.Slot2
	}
	return m.Slot1
}

// Playable reports whether the match is waiting for a vote: still pending
// with both contestants known.
func (m *Match) Playable() bool {
	return m.Status == MatchPending && m.Slot1 != nil && m.Slot2 != nil
}

// Involves reports whether the unordered pair {a, b} is exactly this
// match's pair of contestants.
func (m *Match) Involves(a, b tournament.ParticipantID) bool {
	if m.Slot1 == nil || m.Slot2 == nil {
		return false
	}
	return (*m.Slot1 == a && *m.Slot2 == b) || (*m.Slot1 == b && *m.Slot2 == a)
}

// RecordStage maps the bracket side to the match-record stage.
func (m *Match) RecordStage() tournament.MatchStage {
	switch m.Side {
	case WinnersSide:
		return tournament.StageWinners
	case LosersSide:
		return tournament.StageLosers
	default:
		return tournament.StageFinals
	}
}
