package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/simbachu/monrank/internal/bracket"
	"github.com/simbachu/monrank/internal/swiss"
	"github.com/simbachu/monrank/internal/tournament"
)

// Engine owns stage and round transitions. It is the only writer of
// tournament state: every submission runs as one transaction — record the
// result, recompute tallies, advance the round or stage if the last open
// pairing just resolved — so a failed submission leaves nothing behind.
type Engine struct {
	db  *sqlx.DB
	gw  Gateway
	cfg tournament.Config
}

func New(db *sqlx.DB, gw Gateway, cfg tournament.Config) *Engine {
	if cfg.SwissRounds == nil {
		cfg.SwissRounds = tournament.DefaultSwissRounds
	}
	return &Engine{db: db, gw: gw, cfg: cfg}
}

// Pairing is one open matchup a voter can resolve right now.
type Pairing struct {
	Stage tournament.MatchStage    `json:"stage"`
	Round int                      `json:"round"`
	A     tournament.ParticipantID `json:"participant_a"`
	B     tournament.ParticipantID `json:"participant_b"`
}

// CreateTournament registers a fixed roster and pairs round 0 up front. The
// roster cannot change afterwards.
func (e *Engine) CreateTournament(ctx context.Context, owner uuid.UUID, roster []tournament.ParticipantID) (*tournament.Tournament, error) {
	if len(roster) < 2 {
		return nil, fmt.Errorf("roster needs at least 2 participants, got %d", len(roster))
	}
	seen := make(map[tournament.ParticipantID]bool, len(roster))
	for _, id := range roster {
		if id == tournament.ByeOpponent {
			return nil, fmt.Errorf("empty participant id in roster")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate participant %q in roster", id)
		}
		seen[id] = true
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t := &tournament.Tournament{
		ID:               uuid.New(),
		OwnerID:          owner,
		Stage:            tournament.StageSwiss,
		CurrentRound:     0,
		TotalSwissRounds: e.cfg.SwissRounds(len(roster)),
		WinPoints:        e.cfg.WinPoints,
		DrawPoints:       e.cfg.DrawPoints,
		CreatedAt:        time.Now().UTC(),
	}
	if err := e.gw.CreateTournament(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}

	participants := make([]tournament.Participant, len(roster))
	for i, id := range roster {
		participants[i] = tournament.Participant{TournamentID: t.ID, ID: id}
	}
	if err := e.gw.CreateParticipants(ctx, tx, participants); err != nil {
		return nil, fmt.Errorf("create participants: %w", err)
	}

	standings := swiss.ComputeStandings(roster, nil, t.WinPoints, t.DrawPoints)
	round, err := swiss.NextRound(standings, nil)
	if err != nil {
		return nil, fmt.Errorf("pair round 0: %w", err)
	}
	if err := e.persistRound(ctx, tx, t, round, nil, roster); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// SubmitResult records one pairwise outcome for the active round or bracket
// slot set and, when that closed the last open pairing, advances the
// tournament. The whole submission is atomic.
func (e *Engine) SubmitResult(ctx context.Context, id uuid.UUID, a, b tournament.ParticipantID, outcome tournament.Outcome) (*tournament.Tournament, error) {
	if a == b || a == tournament.ByeOpponent || b == tournament.ByeOpponent {
		return nil, fmt.Errorf("%w: %q vs %q", ErrInvalidPairing, a, b)
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := e.gw.GetTournamentTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
		}
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	if t.Complete() {
		return nil, ErrTournamentComplete
	}

	switch t.Stage {
	case tournament.StageSwiss:
		err = e.submitSwiss(ctx, tx, t, a, b, outcome)
	case tournament.StageBracket:
		err = e.submitBracket(ctx, tx, t, a, b, outcome)
	default:
		return nil, fmt.Errorf("unexpected stage %q", t.Stage)
	}
	if err != nil {
		return nil, err
	}

	if err := e.gw.UpdateTournament(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("update tournament: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func (e *Engine) submitSwiss(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament, a, b tournament.ParticipantID, outcome tournament.Outcome) error {
	pairings, err := e.gw.GetPairingsTx(ctx, tx, t.ID, t.CurrentRound)
	if err != nil {
		return fmt.Errorf("load pairings: %w", err)
	}
	open := false
	for _, p := range pairings {
		if !p.IsBye && tournament.SamePair(p.ParticipantA, p.ParticipantB, a, b) {
			open = true
			break
		}
	}
	if !open {
		return fmt.Errorf("%w: %q vs %q in round %d", ErrInvalidPairing, a, b, t.CurrentRound)
	}

	rec := tournament.NewMatchRecord(t.ID, tournament.StageSwissMatch, t.CurrentRound, a, b, outcome)
	if err := e.gw.UpsertMatchRecord(ctx, tx, rec); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}

	records, err := e.gw.GetMatchRecordsTx(ctx, tx, t.ID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	history := filterStage(records, tournament.StageSwissMatch)

	participants, err := e.gw.GetParticipantsTx(ctx, tx, t.ID)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	roster := rosterIDs(participants)

	standings := swiss.ComputeStandings(roster, history, t.WinPoints, t.DrawPoints)
	if err := e.gw.UpdateParticipants(ctx, tx, standingsToRows(t.ID, standings)); err != nil {
		return fmt.Errorf("update tallies: %w", err)
	}

	if !roundDecided(pairings, history, t.CurrentRound) {
		return nil
	}

	t.CurrentRound++
	if t.CurrentRound >= t.TotalSwissRounds {
		return e.seedBracket(ctx, tx, t, standings)
	}

	next, err := swiss.NextRound(standings, history)
	if err != nil {
		return fmt.Errorf("pair round %d: %w", t.CurrentRound, err)
	}
	return e.persistRound(ctx, tx, t, next, history, roster)
}

// seedBracket transitions to the elimination stage: the Swiss top 16 enter
// a double-elimination bracket seeded strongest-meets-weakest.
func (e *Engine) seedBracket(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament, standings []swiss.Standing) error {
	t.Stage = tournament.StageBracket

	seeds := make([]tournament.ParticipantID, 0, bracket.BracketSize)
	for i, s := range standings {
		if i == bracket.BracketSize {
			break
		}
		seeds = append(seeds, s.ID)
	}

	matches := bracket.Build(t.ID, seeds)
	if err := e.gw.UpsertBracketMatches(ctx, tx, matches); err != nil {
		return fmt.Errorf("save bracket: %w", err)
	}

	// A tiny field can cascade straight through to a champion.
	if bracket.Champion(matches) != nil {
		t.Stage = tournament.StageComplete
	}
	return nil
}

func (e *Engine) submitBracket(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament, a, b tournament.ParticipantID, outcome tournament.Outcome) error {
	matches, err := e.gw.GetBracketMatchesTx(ctx, tx, t.ID)
	if err != nil {
		return fmt.Errorf("load bracket: %w", err)
	}

	m := bracket.FindPlayable(matches, a, b)
	if m == nil {
		// A retried submission that matches the stored result is a no-op.
		if w := winnerOf(a, b, outcome); w != nil {
			for _, fm := range matches {
				if fm.Status == bracket.MatchFinished && fm.Involves(a, b) {
					if fw := fm.Winner(); fw != nil && *fw == *w {
						return nil
					}
				}
			}
		}
		return fmt.Errorf("%w: %q vs %q in bracket", ErrInvalidPairing, a, b)
	}
	if outcome == tournament.OutcomeDraw {
		return ErrDrawNotAllowed
	}

	winner := *winnerOf(a, b, outcome)
	winnerSlot := 1
	if *m.Slot2 == winner {
		winnerSlot = 2
	}
	bracket.Apply(matches, m, winnerSlot)

	rec := tournament.NewMatchRecord(t.ID, m.RecordStage(), m.Round, a, b, outcome)
	if err := e.gw.UpsertMatchRecord(ctx, tx, rec); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}

	// Losers-side finalist taking game one resets the bracket: both
	// contestants stand at one loss and game two decides.
	if m.Side == bracket.FinalsSide && m.Round == 1 && winnerSlot == 2 {
		matches = append(matches, bracket.ResetGame(m))
	}

	if bracket.Champion(matches) != nil {
		t.Stage = tournament.StageComplete
	}

	if err := e.gw.UpsertBracketMatches(ctx, tx, matches); err != nil {
		return fmt.Errorf("save bracket: %w", err)
	}
	return nil
}

// ActivePairings lists what can be voted on right now. Read-only.
func (e *Engine) ActivePairings(ctx context.Context, id uuid.UUID) ([]Pairing, error) {
	t, err := e.loadTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := e.gw.GetMatchRecords(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return e.activePairings(ctx, t, records)
}

func (e *Engine) activePairings(ctx context.Context, t *tournament.Tournament, records []tournament.MatchRecord) ([]Pairing, error) {
	switch t.Stage {
	case tournament.StageSwiss:
		pairings, err := e.gw.GetPairings(ctx, t.ID, t.CurrentRound)
		if err != nil {
			return nil, fmt.Errorf("load pairings: %w", err)
		}
		history := filterStage(records, tournament.StageSwissMatch)
		var out []Pairing
		for _, p := range pairings {
			if p.IsBye || hasRecord(history, t.CurrentRound, p.ParticipantA, p.ParticipantB) {
				continue
			}
			out = append(out, Pairing{
				Stage: tournament.StageSwissMatch,
				Round: t.CurrentRound,
				A:     p.ParticipantA,
				B:     p.ParticipantB,
			})
		}
		return out, nil

	case tournament.StageBracket:
		matches, err := e.gw.GetBracketMatches(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("load bracket: %w", err)
		}
		var out []Pairing
		for _, m := range bracket.Playable(matches) {
			out = append(out, Pairing{
				Stage: m.RecordStage(),
				Round: m.Round,
				A:     *m.Slot1,
				B:     *m.Slot2,
			})
		}
		return out, nil
	}
	return nil, nil
}

// Standings returns the Swiss table, recomputed from the stored history.
func (e *Engine) Standings(ctx context.Context, id uuid.UUID) ([]swiss.Standing, error) {
	t, err := e.loadTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := e.gw.GetParticipants(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	records, err := e.gw.GetMatchRecords(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	history := filterStage(records, tournament.StageSwissMatch)
	return swiss.ComputeStandings(rosterIDs(participants), history, t.WinPoints, t.DrawPoints), nil
}

// View is the read model the presentation layer renders from.
type View struct {
	Tournament   *tournament.Tournament   `json:"tournament"`
	Participants []tournament.Participant `json:"participants"`
	Standings    []swiss.Standing         `json:"standings"`
	Bracket      []*bracket.Match         `json:"bracket,omitempty"`
	Active       []Pairing                `json:"active_pairings"`
}

// TournamentView assembles the full read model, loading the independent row
// sets in parallel.
func (e *Engine) TournamentView(ctx context.Context, id uuid.UUID) (*View, error) {
	t, err := e.loadTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		participants []tournament.Participant
		records      []tournament.MatchRecord
		matches      []*bracket.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = e.gw.GetParticipants(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = e.gw.GetMatchRecords(gctx, id)
		return err
	})
	if t.Stage != tournament.StageSwiss {
		g.Go(func() error {
			var err error
			matches, err = e.gw.GetBracketMatches(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load tournament view: %w", err)
	}

	history := filterStage(records, tournament.StageSwissMatch)
	active, err := e.activePairings(ctx, t, records)
	if err != nil {
		return nil, err
	}

	return &View{
		Tournament:   t,
		Participants: participants,
		Standings:    swiss.ComputeStandings(rosterIDs(participants), history, t.WinPoints, t.DrawPoints),
		Bracket:      matches,
		Active:       active,
	}, nil
}

func (e *Engine) loadTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	t, err := e.gw.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
		}
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	return t, nil
}

// persistRound stores the round's pairings and immediately credits the bye,
// so presentation paths never see an undecidable pairing.
func (e *Engine) persistRound(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament, round swiss.Round, history []tournament.MatchRecord, roster []tournament.ParticipantID) error {
	rows := make([]swiss.Pairing, 0, len(round.Pairs)+1)
	for _, p := range round.Pairs {
		a, b := tournament.CanonicalPair(p.A, p.B)
		rows = append(rows, swiss.Pairing{
			TournamentID: t.ID,
			Round:        t.CurrentRound,
			ParticipantA: a,
			ParticipantB: b,
		})
	}
	if round.Bye != nil {
		rows = append(rows, swiss.Pairing{
			TournamentID: t.ID,
			Round:        t.CurrentRound,
			ParticipantA: *round.Bye,
			ParticipantB: tournament.ByeOpponent,
			IsBye:        true,
		})
	}
	if err := e.gw.CreatePairings(ctx, tx, rows); err != nil {
		return fmt.Errorf("save pairings: %w", err)
	}

	if round.Bye != nil {
		rec := tournament.NewByeRecord(t.ID, t.CurrentRound, *round.Bye)
		if err := e.gw.UpsertMatchRecord(ctx, tx, rec); err != nil {
			return fmt.Errorf("record bye: %w", err)
		}
		history = append(history, rec)
		standings := swiss.ComputeStandings(roster, history, t.WinPoints, t.DrawPoints)
		if err := e.gw.UpdateParticipants(ctx, tx, standingsToRows(t.ID, standings)); err != nil {
			return fmt.Errorf("update tallies: %w", err)
		}
	}
	return nil
}

func roundDecided(pairings []swiss.Pairing, history []tournament.MatchRecord, round int) bool {
	for _, p := range pairings {
		if !hasRecord(history, round, p.ParticipantA, p.ParticipantB) {
			return false
		}
	}
	return true
}

func hasRecord(history []tournament.MatchRecord, round int, a, b tournament.ParticipantID) bool {
	for _, rec := range history {
		if rec.Round == round && tournament.SamePair(rec.ParticipantA, rec.ParticipantB, a, b) {
			return true
		}
	}
	return false
}

func filterStage(records []tournament.MatchRecord, stage tournament.MatchStage) []tournament.MatchRecord {
	var out []tournament.MatchRecord
	for _, r := range records {
		if r.Stage == stage {
			out = append(out, r)
		}
	}
	return out
}

func rosterIDs(participants []tournament.Participant) []tournament.ParticipantID {
	out := make([]tournament.ParticipantID, len(participants))
	for i, p := range participants {
		out[i] = p.ID
	}
	return out
}

func standingsToRows(tournamentID uuid.UUID, standings []swiss.Standing) []tournament.Participant {
	out := make([]tournament.Participant, len(standings))
	for i, s := range standings {
		out[i] = tournament.Participant{
			TournamentID: tournamentID,
			ID:           s.ID,
			Score:        s.Score,
			Wins:         s.Wins,
			Losses:       s.Losses,
			Draws:        s.Draws,
		}
	}
	return out
}

func winnerOf(a, b tournament.ParticipantID, outcome tournament.Outcome) *tournament.ParticipantID {
	switch outcome {
	case tournament.OutcomeWinA:
		return &a
	case tournament.OutcomeWinB:
		return &b
	}
	return nil
}
