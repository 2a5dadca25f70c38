package swiss

import (
	"sort"

	"github.com/simbachu/monrank/internal/tournament"
)

type Standing struct {
	ID     tournament.ParticipantID `json:"id"`
	Score  int                      `json:"score"`
	Wins   int                      `json:"wins"`
	Losses int                      `json:"losses"`
	Draws  int                      `json:"draws"`
}

// ComputeStandings rebuilds the table from the full match history every
// call. Recomputing from scratch, rather than mutating tallies
// incrementally, keeps corrected (replaced) results consistent. Records
// involving participants outside the roster are skipped; byes count as wins.
//
// Order: score desc, then wins desc, losses asc, and finally slug asc, so
// the result is a total order and bracket seeding is reproducible.
func ComputeStandings(roster []tournament.ParticipantID, history []tournament.MatchRecord, winPoints, drawPoints int) []Standing {
	index := make(map[tournament.ParticipantID]int, len(roster))
	standings := make([]Standing, len(roster))
	for i, id := range roster {
		index[id] = i
		standings[i] = Standing{ID: id}
	}

	credit := func(id tournament.ParticipantID, won, drew bool) {
		i, ok := index[id]
		if !ok {
			return
		}
		switch {
		case won:
			standings[i].Wins++
			standings[i].Score += winPoints
		case drew:
			standings[i].Draws++
			standings[i].Score += drawPoints
		default:
			standings[i].Losses++
		}
	}

	for _, rec := range history {
		if rec.IsBye() {
			credit(rec.ParticipantA, true, false)
			continue
		}
		switch rec.Outcome {
		case tournament.OutcomeWinA:
			credit(rec.ParticipantA, true, false)
			credit(rec.ParticipantB, false, false)
		case tournament.OutcomeWinB:
			credit(rec.ParticipantB, true, false)
			credit(rec.ParticipantA, false, false)
		case tournament.OutcomeDraw:
			credit(rec.ParticipantA, false, true)
			credit(rec.ParticipantB, false, true)
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return a.ID < b.ID
	})

	return standings
}
