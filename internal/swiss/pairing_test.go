package swiss

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simbachu/monrank/internal/tournament"
)

func zeroStandings(ids ...tournament.ParticipantID) []Standing {
	return ComputeStandings(ids, nil, 3, 1)
}

func assertDisjoint(t *testing.T, round Round) {
	t.Helper()
	seen := map[tournament.ParticipantID]bool{}
	for _, p := range round.Pairs {
		assert.False(t, seen[p.A], "participant %q paired twice", p.A)
		assert.False(t, seen[p.B], "participant %q paired twice", p.B)
		seen[p.A] = true
		seen[p.B] = true
	}
	if round.Bye != nil {
		assert.False(t, seen[*round.Bye], "bye participant %q also paired", *round.Bye)
	}
}

func TestNextRoundPairsEveryoneOnce(t *testing.T) {
	standings := zeroStandings("a", "b", "c", "d", "e", "f", "g", "h")

	round, err := NextRound(standings, nil)
	require.NoError(t, err)

	assert.Len(t, round.Pairs, 4)
	assert.Nil(t, round.Bye)
	assertDisjoint(t, round)

	// First round from a clean slate pairs neighbours in standings order.
	assert.Equal(t, Pair{A: "a", B: "b"}, round.Pairs[0])
}

func TestNextRoundStageComplete(t *testing.T) {
	_, err := NextRound(zeroStandings("a"), nil)
	assert.ErrorIs(t, err, ErrStageComplete)

	_, err = NextRound(nil, nil)
	assert.ErrorIs(t, err, ErrStageComplete)
}

func TestFiveParticipantScenario(t *testing.T) {
	// Round 1 from zero standings: (p1,p2), (p3,p4), bye to p5.
	standings := zeroStandings("p1", "p2", "p3", "p4", "p5")
	round1, err := NextRound(standings, nil)
	require.NoError(t, err)

	require.Len(t, round1.Pairs, 2)
	require.NotNil(t, round1.Bye)
	assert.Equal(t, Pair{A: "p1", B: "p2"}, round1.Pairs[0])
	assert.Equal(t, Pair{A: "p3", B: "p4"}, round1.Pairs[1])
	assert.Equal(t, tournament.ParticipantID("p5"), *round1.Bye)

	// All round-1 results in: p1 and p3 win, p5 is credited the bye.
	history := []tournament.MatchRecord{
		record(0, "p1", "p2", tournament.OutcomeWinA),
		record(0, "p3", "p4", tournament.OutcomeWinA),
		tournament.NewByeRecord(uuid.Nil, 0, "p5"),
	}
	standings = ComputeStandings([]tournament.ParticipantID{"p1", "p2", "p3", "p4", "p5"}, history, 3, 1)

	round2, err := NextRound(standings, history)
	require.NoError(t, err)
	assertDisjoint(t, round2)

	// No rematches, and the bye moves on to the lowest-ranked participant
	// that has not had one yet.
	for _, p := range round2.Pairs {
		assert.False(t, tournament.SamePair(p.A, p.B, "p1", "p2"), "round 2 repeats p1 vs p2")
		assert.False(t, tournament.SamePair(p.A, p.B, "p3", "p4"), "round 2 repeats p3 vs p4")
	}
	require.NotNil(t, round2.Bye)
	assert.Equal(t, tournament.ParticipantID("p4"), *round2.Bye)

	// New standings order is respected: the three winners pair first.
	assert.Equal(t, Pair{A: "p1", B: "p3"}, round2.Pairs[0])
	assert.Equal(t, Pair{A: "p5", B: "p2"}, round2.Pairs[1])
}

func TestByeGoesToLowestWithoutPriorBye(t *testing.T) {
	history := []tournament.MatchRecord{
		tournament.NewByeRecord(uuid.Nil, 0, "c"),
	}
	standings := zeroStandings("a", "b", "c")

	round, err := NextRound(standings, history)
	require.NoError(t, err)

	require.NotNil(t, round.Bye)
	assert.NotEqual(t, tournament.ParticipantID("c"), *round.Bye)
}

func TestByeRelaxationWhenAllHaveHadOne(t *testing.T) {
	// Everyone has already sat out once; the lowest-ranked participant
	// sits out again rather than deadlocking the round.
	history := []tournament.MatchRecord{
		tournament.NewByeRecord(uuid.Nil, 0, "a"),
		tournament.NewByeRecord(uuid.Nil, 1, "b"),
		tournament.NewByeRecord(uuid.Nil, 2, "c"),
	}
	roster := []tournament.ParticipantID{"a", "b", "c"}
	standings := ComputeStandings(roster, history, 3, 1)

	round, err := NextRound(standings, history)
	require.NoError(t, err)

	require.NotNil(t, round.Bye)
	assert.Equal(t, standings[len(standings)-1].ID, *round.Bye)
	assertDisjoint(t, round)
}

func TestRematchRelaxation(t *testing.T) {
	// Two participants left who have already met: pairing falls back to a
	// rematch instead of failing.
	history := []tournament.MatchRecord{
		record(0, "a", "b", tournament.OutcomeWinA),
	}
	roster := []tournament.ParticipantID{"a", "b"}
	standings := ComputeStandings(roster, history, 3, 1)

	round, err := NextRound(standings, history)
	require.NoError(t, err)

	require.Len(t, round.Pairs, 1)
	assert.True(t, tournament.SamePair(round.Pairs[0].A, round.Pairs[0].B, "a", "b"))
}

func TestRematchRelaxationPrefersFewestMeetings(t *testing.T) {
	// a has met b twice and c once; forced to rematch, a takes c.
	history := []tournament.MatchRecord{
		record(0, "a", "b", tournament.OutcomeWinA),
		record(1, "a", "b", tournament.OutcomeWinA),
		record(2, "a", "c", tournament.OutcomeWinA),
		record(0, "b", "c", tournament.OutcomeWinA),
		record(1, "b", "d", tournament.OutcomeWinA),
		record(2, "c", "d", tournament.OutcomeWinA),
		record(0, "a", "d", tournament.OutcomeWinA),
	}
	roster := []tournament.ParticipantID{"a", "b", "c", "d"}
	standings := ComputeStandings(roster, history, 3, 1)
	require.Equal(t, tournament.ParticipantID("a"), standings[0].ID)

	round, err := NextRound(standings, history)
	require.NoError(t, err)
	require.Len(t, round.Pairs, 2)
	assertDisjoint(t, round)

	var aPair Pair
	for _, p := range round.Pairs {
		if p.A == "a" || p.B == "a" {
			aPair = p
		}
	}
	assert.True(t, tournament.SamePair(aPair.A, aPair.B, "a", "c"))
}

func TestNextRoundDeterministic(t *testing.T) {
	history := []tournament.MatchRecord{
		record(0, "a", "b", tournament.OutcomeWinA),
		record(0, "c", "d", tournament.OutcomeWinB),
		record(0, "e", "f", tournament.OutcomeDraw),
	}
	roster := []tournament.ParticipantID{"a", "b", "c", "d", "e", "f"}
	standings := ComputeStandings(roster, history, 3, 1)

	first, err := NextRound(standings, history)
	require.NoError(t, err)
	second, err := NextRound(standings, history)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
