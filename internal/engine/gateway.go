package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simbachu/monrank/internal/bracket"
	"github.com/simbachu/monrank/internal/swiss"
	"github.com/simbachu/monrank/internal/tournament"
)

// Gateway is the persistence boundary the engine writes tournament state
// through. The engine never speaks SQL itself; it only requires a durable
// store whose mutating methods take part in the surrounding transaction.
// Match upserts must be idempotent on (tournament, stage, round, pair) so
// retried submissions replace rather than duplicate.
type Gateway interface {
	CreateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error
	GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error)
	GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*tournament.Tournament, error)
	UpdateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error

	CreateParticipants(ctx context.Context, tx *sqlx.Tx, participants []tournament.Participant) error
	GetParticipants(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Participant, error)
	GetParticipantsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]tournament.Participant, error)
	UpdateParticipants(ctx context.Context, tx *sqlx.Tx, participants []tournament.Participant) error

	UpsertMatchRecord(ctx context.Context, tx *sqlx.Tx, rec tournament.MatchRecord) error
	GetMatchRecords(ctx context.Context, tournamentID uuid.UUID) ([]tournament.MatchRecord, error)
	GetMatchRecordsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]tournament.MatchRecord, error)

	CreatePairings(ctx context.Context, tx *sqlx.Tx, pairings []swiss.Pairing) error
	GetPairings(ctx context.Context, tournamentID uuid.UUID, round int) ([]swiss.Pairing, error)
	GetPairingsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round int) ([]swiss.Pairing, error)

	UpsertBracketMatches(ctx context.Context, tx *sqlx.Tx, matches []*bracket.Match) error
	GetBracketMatches(ctx context.Context, tournamentID uuid.UUID) ([]*bracket.Match, error)
	GetBracketMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]*bracket.Match, error)
}
