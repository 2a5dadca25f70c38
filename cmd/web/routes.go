package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simbachu/monrank/internal/engine"
	"github.com/simbachu/monrank/internal/httputil"
	"github.com/simbachu/monrank/internal/lookup"
	"github.com/simbachu/monrank/internal/middleware"
	"github.com/simbachu/monrank/internal/store"
	"github.com/simbachu/monrank/internal/telemetry"
	"github.com/simbachu/monrank/internal/tournament"
)

func newRouter(sessionManager *scs.SessionManager, database *sqlx.DB, cfg tournament.Config, species *lookup.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.VoterIdentity(sessionManager))

	eng := engine.New(database, store.NewTournamentStore(database), cfg)
	readings := telemetry.NewStore(database)

	r.Post("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Participants []tournament.ParticipantID `json:"participants"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		owner, _ := middleware.GetVoterIDFromContext(r.Context())
		t, err := eng.CreateTournament(r.Context(), owner, req.Participants)
		if err != nil {
			httputil.BadRequest(w, "Failed to create tournament", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, t)
	})

	r.Get("/api/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}

		view, err := eng.TournamentView(r.Context(), id)
		if err != nil {
			if errors.Is(err, engine.ErrTournamentNotFound) {
				httputil.NotFound(w, "Tournament not found", err)
				return
			}
			httputil.InternalServerError(w, "Failed to get tournament", err)
			return
		}
		httputil.JSON(w, http.StatusOK, view)
	})

	r.Get("/api/tournaments/{id}/standings", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}

		standings, err := eng.Standings(r.Context(), id)
		if err != nil {
			if errors.Is(err, engine.ErrTournamentNotFound) {
				httputil.NotFound(w, "Tournament not found", err)
				return
			}
			httputil.InternalServerError(w, "Failed to get standings", err)
			return
		}
		httputil.JSON(w, http.StatusOK, standings)
	})

	r.Get("/api/tournaments/{id}/pairings", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}

		pairings, err := eng.ActivePairings(r.Context(), id)
		if err != nil {
			if errors.Is(err, engine.ErrTournamentNotFound) {
				httputil.NotFound(w, "Tournament not found", err)
				return
			}
			httputil.InternalServerError(w, "Failed to get pairings", err)
			return
		}

		// Display metadata is best-effort; a failed lookup falls back to
		// the slug and never blocks the pairing list.
		type pairingView struct {
			engine.Pairing
			ProfileA lookup.Profile `json:"profile_a"`
			ProfileB lookup.Profile `json:"profile_b"`
		}
		out := make([]pairingView, 0, len(pairings))
		for _, p := range pairings {
			out = append(out, pairingView{
				Pairing:  p,
				ProfileA: species.ProfileOrFallback(r.Context(), p.A),
				ProfileB: species.ProfileOrFallback(r.Context(), p.B),
			})
		}
		httputil.JSON(w, http.StatusOK, out)
	})

	r.Post("/api/tournaments/{id}/results", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}

		var req struct {
			ParticipantA tournament.ParticipantID `json:"participant_a"`
			ParticipantB tournament.ParticipantID `json:"participant_b"`
			Outcome      tournament.Outcome       `json:"outcome"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		switch req.Outcome {
		case tournament.OutcomeWinA, tournament.OutcomeWinB, tournament.OutcomeDraw:
		default:
			httputil.BadRequest(w, "Invalid outcome", nil)
			return
		}

		t, err := eng.SubmitResult(r.Context(), id, req.ParticipantA, req.ParticipantB, req.Outcome)
		if err != nil {
			switch {
			case errors.Is(err, engine.ErrTournamentNotFound):
				httputil.NotFound(w, "Tournament not found", err)
			case errors.Is(err, engine.ErrTournamentComplete):
				httputil.Conflict(w, "Tournament is already complete", err)
			case errors.Is(err, engine.ErrInvalidPairing), errors.Is(err, engine.ErrDrawNotAllowed):
				httputil.BadRequest(w, err.Error(), err)
			default:
				httputil.InternalServerError(w, "Failed to submit result", err)
			}
			return
		}
		httputil.JSON(w, http.StatusOK, t)
	})

	r.Post("/api/telemetry", func(w http.ResponseWriter, r *http.Request) {
		var reading telemetry.Reading
		if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if reading.DeviceID == "" || reading.Metric == "" {
			httputil.BadRequest(w, "device_id and metric are required", nil)
			return
		}

		if err := readings.Insert(r.Context(), &reading); err != nil {
			httputil.InternalServerError(w, "Failed to store reading", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, reading)
	})

	return r
}
