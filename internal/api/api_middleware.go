package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ticklist/ticklist/internal/auth"
	"github.com/ticklist/ticklist/internal/model"
	"github.com/ticklist/ticklist/internal/repository"
)

type ctxKey string

const ctxActor = ctxKey("actor")

// middlewareAuthenticate validates the bearer token and resolves it to a
// live user record before passing the request on. A token whose user has
// disappeared is as unauthenticated as no token at all.
func (cfg *APIConfig) middlewareAuthenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := auth.GetBearerToken(r.Header)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", err)
			return
		}

		userID, err := auth.ValidateJWT(tokenString, cfg.secret)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token", err)
			return
		}

		user, err := cfg.users.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired token", err)
				return
			}
			cfg.serverError(w, "Failed to authenticate request", err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxActor, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// actorFromContext returns the authenticated user placed by the middleware.
func actorFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(ctxActor).(*model.User)
	if !ok {
		slog.Warn("no actor found in request context")
		return nil
	}
	return user
}
