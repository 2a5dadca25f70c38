package swiss

import (
	"errors"

	"github.com/google/uuid"

	"github.com/simbachu/monrank/internal/tournament"
)

// ErrStageComplete signals that no further round can be paired.
var ErrStageComplete = errors.New("swiss stage complete: fewer than two participants to pair")

type Pair struct {
	A tournament.ParticipantID
	B tournament.ParticipantID
}

// Round is the full pairing output for one Swiss round.
type Round struct {
	Pairs []Pair
	Bye   *tournament.ParticipantID
}

// Pairing is the persisted form of one pair (or bye) of a round.
type Pairing struct {
	TournamentID uuid.UUID                `db:"tournament_id"`
	Round        int                      `db:"round"`
	ParticipantA tournament.ParticipantID `db:"participant_a"`
	ParticipantB tournament.ParticipantID `db:"participant_b"`
	IsBye        bool                     `db:"is_bye"`
}

type pairKey [2]tournament.ParticipantID

func keyFor(a, b tournament.ParticipantID) pairKey {
	ca, cb := tournament.CanonicalPair(a, b)
	return pairKey{ca, cb}
}

// NextRound pairs the field for the next round: walk the standings top-down
// and pair each unpaired participant with the nearest-ranked opponent it has
// not met yet. When every remaining candidate has already been played, the
// one with the fewest prior meetings is taken instead (nearest rank wins a
// tie), so pairing never deadlocks at the cost of a rematch.
//
// With an odd field the lowest-ranked participant without a prior bye sits
// out and is credited a win; when everyone has already had a bye the
// lowest-ranked participant sits out again.
func NextRound(standings []Standing, history []tournament.MatchRecord) (Round, error) {
	if len(standings) < 2 {
		return Round{}, ErrStageComplete
	}

	meetings := make(map[pairKey]int)
	hadBye := make(map[tournament.ParticipantID]bool)
	for _, rec := range history {
		if rec.IsBye() {
			hadBye[rec.ParticipantA] = true
			continue
		}
		meetings[keyFor(rec.ParticipantA, rec.ParticipantB)]++
	}

	order := make([]tournament.ParticipantID, len(standings))
	for i, s := range standings {
		order[i] = s.ID
	}

	var round Round
	if len(order)%2 != 0 {
		byeIdx := len(order) - 1
		for i := len(order) - 1; i >= 0; i-- {
			if !hadBye[order[i]] {
				byeIdx = i
				break
			}
		}
		bye := order[byeIdx]
		round.Bye = &bye
		order = append(order[:byeIdx], order[byeIdx+1:]...)
	}

	paired := make(map[tournament.ParticipantID]bool, len(order))
	for i, p := range order {
		if paired[p] {
			continue
		}

		// Candidates below p in the standings, nearest first. Everyone
		// above is already paired.
		best := -1
		bestMeetings := 0
		for j := i + 1; j < len(order); j++ {
			q := order[j]
			if paired[q] {
				continue
			}
			met := meetings[keyFor(p, q)]
			if met == 0 {
				best = j
				break
			}
			if best == -1 || met < bestMeetings {
				best = j
				bestMeetings = met
			}
		}
		if best == -1 {
			// Odd leftovers cannot happen: the bye already evened the field.
			continue
		}

		opponent := order[best]
		paired[p] = true
		paired[opponent] = true
		round.Pairs = append(round.Pairs, Pair{A: p, B: opponent})
	}

	return round, nil
}
