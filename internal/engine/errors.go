package engine

import "errors"

var (
	// ErrTournamentNotFound — the referenced tournament does not exist.
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrInvalidPairing — the submitted pair is not open in the active
	// round or bracket slot set; the caller should re-fetch pairings.
	ErrInvalidPairing = errors.New("pairing is not open in the active round")

	// ErrTournamentComplete — mutation attempted after the terminal state.
	ErrTournamentComplete = errors.New("tournament is complete")

	// ErrDrawNotAllowed — bracket matches must produce a winner.
	ErrDrawNotAllowed = errors.New("draw results are not allowed in the bracket stage")
)
