package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simbachu/monrank/internal/bracket"
	"github.com/simbachu/monrank/internal/swiss"
	"github.com/simbachu/monrank/internal/tournament"
)

// TournamentStore is the SQLite-backed persistence gateway. Mutations take
// the caller's transaction; match and bracket writes are INSERT OR REPLACE
// on their natural keys so retried submissions are idempotent.
type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, owner_id, stage, current_round, total_swiss_rounds, win_points, draw_points, created_at)
		VALUES (:id, :owner_id, :stage, :current_round, :total_swiss_rounds, :win_points, :draw_points, :created_at)`, t)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	var t tournament.Tournament
	err := s.db.GetContext(ctx, &t, "SELECT * FROM tournaments WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*tournament.Tournament, error) {
	var t tournament.Tournament
	err := tx.GetContext(ctx, &t, "SELECT * FROM tournaments WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE tournaments
		SET stage = :stage, current_round = :current_round
		WHERE id = :id`, t)
	return err
}

func (s *TournamentStore) CreateParticipants(ctx context.Context, tx *sqlx.Tx, participants []tournament.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO participants (tournament_id, id, score, wins, losses, draws)
		VALUES (:tournament_id, :id, :score, :wins, :losses, :draws)`, participants)
	return err
}

func (s *TournamentStore) GetParticipants(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Participant, error) {
	var out []tournament.Participant
	err := s.db.SelectContext(ctx, &out, "SELECT * FROM participants WHERE tournament_id = ? ORDER BY id ASC", tournamentID)
	return out, err
}

func (s *TournamentStore) GetParticipantsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]tournament.Participant, error) {
	var out []tournament.Participant
	err := tx.SelectContext(ctx, &out, "SELECT * FROM participants WHERE tournament_id = ? ORDER BY id ASC", tournamentID)
	return out, err
}

func (s *TournamentStore) UpdateParticipants(ctx context.Context, tx *sqlx.Tx, participants []tournament.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT OR REPLACE INTO participants (tournament_id, id, score, wins, losses, draws)
		VALUES (:tournament_id, :id, :score, :wins, :losses, :draws)`, participants)
	return err
}

func (s *TournamentStore) UpsertMatchRecord(ctx context.Context, tx *sqlx.Tx, rec tournament.MatchRecord) error {
	_, err := tx.NamedExecContext(ctx, `INSERT OR REPLACE INTO match_records (tournament_id, stage, round, participant_a, participant_b, outcome, winner)
		VALUES (:tournament_id, :stage, :round, :participant_a, :participant_b, :outcome, :winner)`, rec)
	return err
}

func (s *TournamentStore) GetMatchRecords(ctx context.Context, tournamentID uuid.UUID) ([]tournament.MatchRecord, error) {
	var out []tournament.MatchRecord
	err := s.db.SelectContext(ctx, &out, "SELECT * FROM match_records WHERE tournament_id = ? ORDER BY stage, round, participant_a", tournamentID)
	return out, err
}

func (s *TournamentStore) GetMatchRecordsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]tournament.MatchRecord, error) {
	var out []tournament.MatchRecord
	err := tx.SelectContext(ctx, &out, "SELECT * FROM match_records WHERE tournament_id = ? ORDER BY stage, round, participant_a", tournamentID)
	return out, err
}

func (s *TournamentStore) CreatePairings(ctx context.Context, tx *sqlx.Tx, pairings []swiss.Pairing) error {
	if len(pairings) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO swiss_pairings (tournament_id, round, participant_a, participant_b, is_bye)
		VALUES (:tournament_id, :round, :participant_a, :participant_b, :is_bye)`, pairings)
	return err
}

func (s *TournamentStore) GetPairings(ctx context.Context, tournamentID uuid.UUID, round int) ([]swiss.Pairing, error) {
	var out []swiss.Pairing
	err := s.db.SelectContext(ctx, &out, "SELECT * FROM swiss_pairings WHERE tournament_id = ? AND round = ? ORDER BY participant_a ASC", tournamentID, round)
	return out, err
}

func (s *TournamentStore) GetPairingsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round int) ([]swiss.Pairing, error) {
	var out []swiss.Pairing
	err := tx.SelectContext(ctx, &out, "SELECT * FROM swiss_pairings WHERE tournament_id = ? AND round = ? ORDER BY participant_a ASC", tournamentID, round)
	return out, err
}

func (s *TournamentStore) UpsertBracketMatches(ctx context.Context, tx *sqlx.Tx, matches []*bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT OR REPLACE INTO bracket_matches (id, tournament_id, bracket_side, round_number, match_order, slot_1, slot_2, winner_slot, status, winner_next_match_id, winner_next_slot, loser_next_match_id, loser_next_slot, is_bye, created_at)
		VALUES (:id, :tournament_id, :bracket_side, :round_number, :match_order, :slot_1, :slot_2, :winner_slot, :status, :winner_next_match_id, :winner_next_slot, :loser_next_match_id, :loser_next_slot, :is_bye, :created_at)`, matches)
	return err
}

func (s *TournamentStore) GetBracketMatches(ctx context.Context, tournamentID uuid.UUID) ([]*bracket.Match, error) {
	var out []*bracket.Match
	err := s.db.SelectContext(ctx, &out, "SELECT * FROM bracket_matches WHERE tournament_id = ? ORDER BY bracket_side, round_number, match_order", tournamentID)
	return out, err
}

func (s *TournamentStore) GetBracketMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]*bracket.Match, error) {
	var out []*bracket.Match
	err := tx.SelectContext(ctx, &out, "SELECT * FROM bracket_matches WHERE tournament_id = ? ORDER BY bracket_side, round_number, match_order", tournamentID)
	return out, err
}
