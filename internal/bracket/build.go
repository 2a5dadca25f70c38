package bracket

import (
	"time"

	"github.com/google/uuid"

	"github.com/simbachu/monrank/internal/tournament"
)

// BracketSize is the entrant count the double-elimination stage is built
// for. Smaller qualifying fields leave the trailing seeds empty; those
// slots resolve as byes.
const BracketSize = 16

const winnersRounds = 4 // log2(BracketSize)

// losersRoundSizes: minor rounds halve the losers field, major rounds
// absorb a winners-bracket drop-in per surviving loser.
var losersRoundSizes = []int{4, 4, 2, 2, 1, 1}

// SeedOrder returns round-1 seat pairs as 0-based seed indexes, so the
// strongest seeds meet as late as possible: 1v16, 8v9, 4v13, ... for a
// 16-slot bracket.
func SeedOrder(size int) [][2]int {
	if size < 2 {
		return nil
	}

	seats := []int{0}
	for len(seats) < size {
		var next []int
		count := len(seats) * 2
		for _, seed := range seats {
			next = append(next, seed)
			next = append(next, (count-1)-seed)
		}
		seats = next
	}

	pairs := make([][2]int, 0, size/2)
	for i := 0; i < len(seats); i += 2 {
		pairs = append(pairs, [2]int{seats[i], seats[i+1]})
	}
	return pairs
}

// Build constructs the full double-elimination graph for up to 16 seeds,
// ordered strongest first: winners rounds 1..4, losers rounds 1..6 and grand
// final game 1, with every advancement edge wired up front. Winners-bracket
// drop-ins land so that a round-r loser joins the survivors of the previous
// losers round; drop-in order is reversed for rounds 2 and 3 to push early
// rematches apart. Seed counts below 16 leave empty slots that resolve as
// byes before the function returns.
func Build(tournamentID uuid.UUID, seeds []tournament.ParticipantID) []*Match {
	if len(seeds) > BracketSize {
		seeds = seeds[:BracketSize]
	}

	now := time.Now().UTC()
	newMatch := func(side Side, round, order int) *Match {
		return &Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Side:         side,
			Round:        round,
			Order:        order,
			Status:       MatchPending,
			CreatedAt:    now,
		}
	}

	wb := make(map[int][]*Match)
	for r := 1; r <= winnersRounds; r++ {
		count := BracketSize >> r
		for o := 1; o <= count; o++ {
			wb[r] = append(wb[r], newMatch(WinnersSide, r, o))
		}
	}

	lb := make(map[int][]*Match)
	for i, count := range losersRoundSizes {
		r := i + 1
		for o := 1; o <= count; o++ {
			lb[r] = append(lb[r], newMatch(LosersSide, r, o))
		}
	}

	grandFinal := newMatch(FinalsSide, 1, 1)

	link := func(from *Match, winner bool, to *Match, slot int) {
		if winner {
			from.WinnerNextMatchID = &to.ID
			from.WinnerNextSlot = &slot
		} else {
			from.LoserNextMatchID = &to.ID
			from.LoserNextSlot = &slot
		}
	}
	parity := func(o int) int {
		if o%2 != 0 {
			return 1
		}
		return 2
	}

	for r := 1; r <= winnersRounds; r++ {
		for i, m := range wb[r] {
			o := i + 1
			if r < winnersRounds {
				link(m, true, wb[r+1][(o-1)/2], parity(o))
			} else {
				link(m, true, grandFinal, 1)
			}
			switch r {
			case 1:
				link(m, false, lb[1][(o-1)/2], parity(o))
			case 2:
				link(m, false, lb[2][len(lb[2])-o], 1)
			case 3:
				link(m, false, lb[4][len(lb[4])-o], 1)
			case 4:
				link(m, false, lb[6][0], 1)
			}
		}
	}

	for _, m := range lb[1] {
		link(m, true, lb[2][m.Order-1], 2)
	}
	for _, m := range lb[2] {
		link(m, true, lb[3][(m.Order-1)/2], parity(m.Order))
	}
	for _, m := range lb[3] {
		link(m, true, lb[4][m.Order-1], 2)
	}
	for _, m := range lb[4] {
		link(m, true, lb[5][(m.Order-1)/2], parity(m.Order))
	}
	link(lb[5][0], true, lb[6][0], 2)
	link(lb[6][0], true, grandFinal, 2)

	for i, pair := range SeedOrder(BracketSize) {
		m := wb[1][i]
		if pair[0] < len(seeds) {
			m.setParticipant(1, seeds[pair[0]])
		}
		if pair[1] < len(seeds) {
			m.setParticipant(2, seeds[pair[1]])
		}
	}

	var matches []*Match
	for r := 1; r <= winnersRounds; r++ {
		matches = append(matches, wb[r]...)
	}
	for r := 1; r <= len(losersRoundSizes); r++ {
		matches = append(matches, lb[r]...)
	}
	matches = append(matches, grandFinal)

	Cascade(matches)
	return matches
}

// ResetGame creates the second grand-final game, required when the
// losers-side finalist takes game one and both contestants stand at one
// loss.
func ResetGame(gameOne *Match) *Match {
	return &Match{
		ID:           uuid.New(),
		TournamentID: gameOne.TournamentID,
		Side:         FinalsSide,
		Round:        2,
		Order:        1,
		Slot1:        gameOne.Slot1,
		Slot2:        gameOne.Slot2,
		Status:       MatchPending,
		CreatedAt:    time.Now().UTC(),
	}
}
