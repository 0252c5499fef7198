package identity

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/pkg/handlers"
)

// Authenticate returns middleware that verifies the bearer token, resolves
// the actor's roles, and installs the Actor into the request context.
//
// A verified subject with no profile is provisioned on first sight (one
// profile row plus the default student role), mirroring the registration
// side-effect of account creation at the auth provider.
func Authenticate(verifier TokenVerifier, sys System, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			roles, err := sys.Roles(r.Context(), userID)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusInternalServerError, err)
				return
			}

			if len(roles) == 0 {
				if _, err := sys.Register(r.Context(), RegisterCommand{
					UserID:      userID,
					Email:       claims.Email,
					DisplayName: claims.Name,
				}); err != nil {
					handlers.RespondError(w, logger, http.StatusInternalServerError, err)
					return
				}
				roles = []Role{RoleStudent}
			}

			actor := Actor{
				UserID: userID,
				Email:  claims.Email,
				Roles:  roles,
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin returns middleware that rejects requests whose actor does not
// hold the admin role. Must run after Authenticate.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "require_admin")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}
			if !actor.IsAdmin() {
				handlers.RespondError(w, logger, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
