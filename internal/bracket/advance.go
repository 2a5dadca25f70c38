package bracket

import (
	"github.com/google/uuid"

	"github.com/simbachu/monrank/internal/tournament"
)

type feeder struct {
	match  *Match
	winner bool // delivers its winner, otherwise its loser
}

// feederIndex maps (match id, slot) to the matches that can still fill it.
func feederIndex(matches []*Match) map[uuid.UUID]map[int][]feeder {
	idx := make(map[uuid.UUID]map[int][]feeder)
	add := func(id *uuid.UUID, slot *int, f feeder) {
		if id == nil || slot == nil {
			return
		}
		if idx[*id] == nil {
			idx[*id] = make(map[int][]feeder)
		}
		idx[*id][*slot] = append(idx[*id][*slot], f)
	}
	for _, m := range matches {
		add(m.WinnerNextMatchID, m.WinnerNextSlot, feeder{match: m, winner: true})
		add(m.LoserNextMatchID, m.LoserNextSlot, feeder{match: m, winner: false})
	}
	return idx
}

// slotDead reports that nothing can fill the slot anymore: it is empty and
// every feeder has finished (or it had no feeder and no seed to begin with).
func slotDead(m *Match, slot int, idx map[uuid.UUID]map[int][]feeder) bool {
	if m.participant(slot) != nil {
		return false
	}
	for _, f := range idx[m.ID][slot] {
		if f.match.Status != MatchFinished {
			return false
		}
	}
	return true
}

// Cascade resolves every slot that can no longer receive a second
// contestant. A sole occupant auto-advances as a bye — no vote required —
// and a match whose both feeds dried up finishes empty, delivering nobody.
// Runs to a fixpoint; byes can chain several rounds deep for small fields.
func Cascade(matches []*Match) {
	byID := make(map[uuid.UUID]*Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}
	idx := feederIndex(matches)

	for changed := true; changed; {
		changed = false
		for _, m := range matches {
			if m.Status != MatchPending {
				continue
			}
			d1 := slotDead(m, 1, idx)
			d2 := slotDead(m, 2, idx)

			switch {
			case m.Slot1 != nil && m.Slot2 == nil && d2:
				finishBye(m, 1, byID)
				changed = true
			case m.Slot2 != nil && m.Slot1 == nil && d1:
				finishBye(m, 2, byID)
				changed = true
			case m.Slot1 == nil && m.Slot2 == nil && d1 && d2:
				m.Status = MatchFinished
				changed = true
			}
		}
	}
}

func finishBye(m *Match, slot int, byID map[uuid.UUID]*Match) {
	m.WinnerSlot = &slot
	m.IsBye = true
	m.Status = MatchFinished
	pushWinner(m, byID)
}

func pushWinner(m *Match, byID map[uuid.UUID]*Match) {
	w := m.Winner()
	if w == nil || m.WinnerNextMatchID == nil || m.WinnerNextSlot == nil {
		return
	}
	if next, ok := byID[*m.WinnerNextMatchID]; ok {
		next.setParticipant(*m.WinnerNextSlot, *w)
	}
}

func pushLoser(m *Match, byID map[uuid.UUID]*Match) {
	l := m.Loser()
	if l == nil || m.LoserNextMatchID == nil || m.LoserNextSlot == nil {
		return
	}
	if next, ok := byID[*m.LoserNextMatchID]; ok {
		next.setParticipant(*m.LoserNextSlot, *l)
	}
}

// Apply finishes a playable match with the given winning slot and
// propagates: the winner moves along its winner edge, a winners-bracket
// loser drops into the losers bracket, a losers-bracket loser is out. Any
// byes opened up by the result resolve before Apply returns.
func Apply(matches []*Match, m *Match, winnerSlot int) {
	byID := make(map[uuid.UUID]*Match, len(matches))
	for _, mm := range matches {
		byID[mm.ID] = mm
	}

	m.WinnerSlot = &winnerSlot
	m.Status = MatchFinished
	pushWinner(m, byID)
	pushLoser(m, byID)

	Cascade(matches)
}

// Playable lists the matches currently waiting on a vote.
func Playable(matches []*Match) []*Match {
	var out []*Match
	for _, m := range matches {
		if m.Playable() {
			out = append(out, m)
		}
	}
	return out
}

// FindPlayable returns the open match contested by exactly {a, b}, if any.
func FindPlayable(matches []*Match, a, b tournament.ParticipantID) *Match {
	for _, m := range matches {
		if m.Playable() && m.Involves(a, b) {
			return m
		}
	}
	return nil
}

// GrandFinal returns the finals match for the given game (1 or 2), or nil.
func GrandFinal(matches []*Match, game int) *Match {
	for _, m := range matches {
		if m.Side == FinalsSide && m.Round == game {
			return m
		}
	}
	return nil
}

// Champion returns the tournament winner once the grand final has resolved.
// Game one decides it unless the losers-side finalist (slot 2) took it, in
// which case the bracket resets and game two is decisive.
func Champion(matches []*Match) *tournament.ParticipantID {
	gameOne := GrandFinal(matches, 1)
	if gameOne == nil || gameOne.Status != MatchFinished || gameOne.WinnerSlot == nil {
		return nil
	}
	if *gameOne.WinnerSlot == 1 {
		return gameOne.Winner()
	}
	gameTwo := GrandFinal(matches, 2)
	if gameTwo == nil || gameTwo.Status != MatchFinished {
		return nil
	}
	return gameTwo.Winner()
}
