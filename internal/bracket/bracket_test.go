package bracket

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simbachu/monrank/internal/tournament"
)

func seeds(n int) []tournament.ParticipantID {
	out := make([]tournament.ParticipantID, n)
	for i := range out {
		out[i] = tournament.ParticipantID(fmt.Sprintf("p%02d", i+1))
	}
	return out
}

func matchesAt(matches []*Match, side Side, round int) []*Match {
	var out []*Match
	for _, m := range matches {
		if m.Side == side && m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func TestSeedOrder(t *testing.T) {
	testCases := []struct {
		name     string
		size     int
		expected [][2]int
	}{
		{
			name:     "2 seats",
			size:     2,
			expected: [][2]int{{0, 1}},
		},
		{
			name:     "4 seats",
			size:     4,
			expected: [][2]int{{0, 3}, {1, 2}},
		},
		{
			name:     "8 seats",
			size:     8,
			expected: [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SeedOrder(tc.size))
		})
	}
}

func TestSeedOrder16PairsStrongAgainstWeak(t *testing.T) {
	pairs := SeedOrder(16)
	require.Len(t, pairs, 8)

	// Every round-1 pair is seed i vs seed 17-i (0-based: indexes sum to 15).
	for _, pair := range pairs {
		assert.Equal(t, 15, pair[0]+pair[1])
	}
	assert.Equal(t, [2]int{0, 15}, pairs[0])
}

func TestBuildStructure(t *testing.T) {
	matches := Build(uuid.New(), seeds(16))

	assert.Len(t, matches, 23)
	assert.Len(t, matchesAt(matches, WinnersSide, 1), 8)
	assert.Len(t, matchesAt(matches, WinnersSide, 2), 4)
	assert.Len(t, matchesAt(matches, WinnersSide, 3), 2)
	assert.Len(t, matchesAt(matches, WinnersSide, 4), 1)
	assert.Len(t, matchesAt(matches, LosersSide, 1), 4)
	assert.Len(t, matchesAt(matches, LosersSide, 2), 4)
	assert.Len(t, matchesAt(matches, LosersSide, 3), 2)
	assert.Len(t, matchesAt(matches, LosersSide, 4), 2)
	assert.Len(t, matchesAt(matches, LosersSide, 5), 1)
	assert.Len(t, matchesAt(matches, LosersSide, 6), 1)
	assert.Len(t, matchesAt(matches, FinalsSide, 1), 1)

	for _, m := range matches {
		switch m.Side {
		case WinnersSide:
			assert.NotNil(t, m.WinnerNextMatchID, "winners match %d-%d has no winner edge", m.Round, m.Order)
			assert.NotNil(t, m.LoserNextMatchID, "winners match %d-%d has no drop-in edge", m.Round, m.Order)
		case LosersSide:
			assert.NotNil(t, m.WinnerNextMatchID, "losers match %d-%d has no winner edge", m.Round, m.Order)
			assert.Nil(t, m.LoserNextMatchID, "losers match %d-%d loser should be eliminated outright", m.Round, m.Order)
		case FinalsSide:
			assert.Nil(t, m.WinnerNextMatchID)
			assert.Nil(t, m.LoserNextMatchID)
		}
	}
}

func TestBuildDropInTargetsAreUnique(t *testing.T) {
	matches := Build(uuid.New(), seeds(16))

	type target struct {
		id   uuid.UUID
		slot int
	}
	seen := map[target]bool{}
	for _, m := range matches {
		if m.LoserNextMatchID == nil {
			continue
		}
		tgt := target{id: *m.LoserNextMatchID, slot: *m.LoserNextSlot}
		assert.False(t, seen[tgt], "two losers dropping into the same slot")
		seen[tgt] = true
	}
}

func TestBuildRound1Seeding(t *testing.T) {
	ss := seeds(16)
	matches := Build(uuid.New(), ss)

	wantPairs := map[tournament.ParticipantID]tournament.ParticipantID{}
	for i := 0; i < 8; i++ {
		wantPairs[ss[i]] = ss[15-i]
	}

	round1 := matchesAt(matches, WinnersSide, 1)
	require.Len(t, round1, 8)
	for _, m := range round1 {
		require.NotNil(t, m.Slot1)
		require.NotNil(t, m.Slot2)
		hi, lo := *m.Slot1, *m.Slot2
		if lo < hi {
			hi, lo = lo, hi
		}
		assert.Equal(t, wantPairs[hi], lo, "round 1 must pair seed i against seed 17-i")
		assert.True(t, m.Playable())
	}
}

func TestBuildWithTwelveSeedsResolvesByes(t *testing.T) {
	matches := Build(uuid.New(), seeds(12))

	byes := 0
	for _, m := range matchesAt(matches, WinnersSide, 1) {
		if m.IsBye {
			byes++
			assert.Equal(t, MatchFinished, m.Status)
			assert.NotNil(t, m.Winner())
			assert.Nil(t, m.Loser(), "a bye produces no loser")
		}
	}
	assert.Equal(t, 4, byes)

	// The top four seeds sat out round 1 and are already placed in round 2.
	for _, m := range matchesAt(matches, WinnersSide, 2) {
		assert.Equal(t, MatchPending, m.Status)
		assert.NotNil(t, m.Slot1, "bye winner should have advanced to round 2")
		assert.Nil(t, m.Slot2, "the other slot still waits on a real result")
	}
}

func TestApplyDropsLoserExactlyOnce(t *testing.T) {
	ss := seeds(16)
	matches := Build(uuid.New(), ss)

	m := matchesAt(matches, WinnersSide, 1)[0]
	loser := *m.Slot2
	Apply(matches, m, 1)

	assert.Equal(t, MatchFinished, m.Status)

	// The loser reappears in exactly one losers-bracket slot.
	holders := 0
	for _, lm := range matches {
		if lm.Side != LosersSide {
			continue
		}
		if (lm.Slot1 != nil && *lm.Slot1 == loser) || (lm.Slot2 != nil && *lm.Slot2 == loser) {
			holders++
			assert.Equal(t, 1, lm.Round, "a round-1 loser enters losers round 1")
		}
	}
	assert.Equal(t, 1, holders)

	// The winner moved along the winners bracket.
	next := matchesAt(matches, WinnersSide, 2)[0]
	require.NotNil(t, next.Slot1)
	assert.Equal(t, *m.Slot1, *next.Slot1)
}

func TestLosersBracketLossEliminates(t *testing.T) {
	matches := Build(uuid.New(), seeds(16))

	// Decide winners round 1 so losers round 1 fills up.
	for _, m := range matchesAt(matches, WinnersSide, 1) {
		Apply(matches, m, 1)
	}

	lm := matchesAt(matches, LosersSide, 1)[0]
	require.True(t, lm.Playable())
	loser := *lm.Slot2
	Apply(matches, lm, 1)

	for _, m := range matches {
		if m.Status != MatchPending {
			continue
		}
		assert.False(t, (m.Slot1 != nil && *m.Slot1 == loser) || (m.Slot2 != nil && *m.Slot2 == loser),
			"a losers-bracket loser must not reappear anywhere")
	}
}

func TestTwoSeedBracketRunsToChampion(t *testing.T) {
	matches := Build(uuid.New(), seeds(2))

	playable := Playable(matches)
	require.Len(t, playable, 1, "only the seeded match should be playable")
	first := playable[0]
	assert.Equal(t, WinnersSide, first.Side)

	// p01 wins; p02 drops, byes through the losers bracket and earns the
	// grand-final rematch.
	Apply(matches, first, 1)
	gf := GrandFinal(matches, 1)
	require.NotNil(t, gf)
	require.True(t, gf.Playable())
	assert.True(t, gf.Involves("p01", "p02"))
	assert.Nil(t, Champion(matches))

	// The winners-side finalist takes game one: done, no reset.
	Apply(matches, gf, 1)
	champ := Champion(matches)
	require.NotNil(t, champ)
	assert.Equal(t, tournament.ParticipantID("p01"), *champ)
}

func TestGrandFinalResetRequiresGameTwo(t *testing.T) {
	matches := Build(uuid.New(), seeds(2))
	Apply(matches, Playable(matches)[0], 1)

	gf := GrandFinal(matches, 1)
	require.NotNil(t, gf)

	// Losers-side finalist (slot 2) wins game one: no champion until the
	// reset game resolves.
	Apply(matches, gf, 2)
	assert.Nil(t, Champion(matches))

	gameTwo := ResetGame(gf)
	matches = append(matches, gameTwo)
	require.True(t, gameTwo.Playable())

	Apply(matches, gameTwo, 2)
	champ := Champion(matches)
	require.NotNil(t, champ)
	assert.Equal(t, tournament.ParticipantID("p02"), *champ)
}
