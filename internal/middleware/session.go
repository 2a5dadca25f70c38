package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type ContextKey string

const VoterIDKey ContextKey = "voterID"

// VoterIdentity assigns each browser session an anonymous voter id. There
// is no account system; the session uuid is all the identity the engine
// needs for tournament ownership.
func VoterIdentity(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := sessionManager.GetString(r.Context(), "voterID")
			voterID, err := uuid.Parse(idStr)
			if idStr == "" || err != nil {
				voterID = uuid.New()
				sessionManager.Put(r.Context(), "voterID", voterID.String())
			}

			ctx := context.WithValue(r.Context(), VoterIDKey, voterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetVoterIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(VoterIDKey)
	if val == nil {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}
