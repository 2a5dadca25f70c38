package tournament

import (
	"time"

	"github.com/google/uuid"
)

type MatchStage string

const (
	StageSwissMatch MatchStage = "swiss"
	StageWinners    MatchStage = "winners"
	StageLosers     MatchStage = "losers"
	StageFinals     MatchStage = "finals"
)

type Outcome string

const (
	OutcomeWinA Outcome = "win_a"
	OutcomeWinB Outcome = "win_b"
	OutcomeDraw Outcome = "draw"
)

// MatchRecord is one decided pairing. The pair is held in canonical order
// (smallest slug first, bye marker always second) so a pairing has exactly
// one row per (tournament, stage, round); resubmission replaces it.
type MatchRecord struct {
	TournamentID uuid.UUID      `db:"tournament_id"`
	Stage        MatchStage     `db:"stage"`
	Round        int            `db:"round"`
	ParticipantA ParticipantID  `db:"participant_a"`
	ParticipantB ParticipantID  `db:"participant_b"`
	Outcome      Outcome        `db:"outcome"`
	Winner       *ParticipantID `db:"winner"`
	CreatedAt    time.Time      `db:"created_at"`
}

// CanonicalPair orders a pair so the lexicographically smaller slug comes
// first. A bye marker always ends up second.
func CanonicalPair(a, b ParticipantID) (ParticipantID, ParticipantID) {
	if a == ByeOpponent {
		return b, a
	}
	if b == ByeOpponent {
		return a, b
	}
	if b < a {
		return b, a
	}
	return a, b
}

// SamePair reports whether the two unordered pairs refer to the same pairing.
func SamePair(a1, b1, a2, b2 ParticipantID) bool {
	ca1, cb1 := CanonicalPair(a1, b1)
	ca2, cb2 := CanonicalPair(a2, b2)
	return ca1 == ca2 && cb1 == cb2
}

// NewMatchRecord canonicalizes the pair, flipping the outcome if the
// participants swap places, and derives the winner column.
func NewMatchRecord(tournamentID uuid.UUID, stage MatchStage, round int, a, b ParticipantID, outcome Outcome) MatchRecord {
	ca, cb := CanonicalPair(a, b)
	if ca != a {
		switch outcome {
		case OutcomeWinA:
			outcome = OutcomeWinB
		case OutcomeWinB:
			outcome = OutcomeWinA
		}
	}

	rec := MatchRecord{
		TournamentID: tournamentID,
		Stage:        stage,
		Round:        round,
		ParticipantA: ca,
		ParticipantB: cb,
		Outcome:      outcome,
	}
	switch outcome {
	case OutcomeWinA:
		w := ca
		rec.Winner = &w
	case OutcomeWinB:
		w := cb
		rec.Winner = &w
	}
	return rec
}

// NewByeRecord credits a win-equivalent result for an unpaired participant.
func NewByeRecord(tournamentID uuid.UUID, round int, p ParticipantID) MatchRecord {
	return NewMatchRecord(tournamentID, StageSwissMatch, round, p, ByeOpponent, OutcomeWinA)
}

func (r MatchRecord) IsBye() bool {
	return r.ParticipantB == ByeOpponent
}

func (r MatchRecord) Involves(p ParticipantID) bool {
	return r.ParticipantA == p || r.ParticipantB == p
}
