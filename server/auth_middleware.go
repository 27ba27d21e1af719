package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-keycloak-pkce/oauthmodel"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the signed in *oauthmodel.User
const ContextKeyUser ContextKey = "user"

// RequireUser returns the signed in user. For an anonymous session it records
// the requested path as the post login destination, commits the session,
// redirects to the login page and returns false; the caller must not write
// to w after that.
//
// An expired access token is refreshed when a refresh token is available.
// When it cannot be refreshed the session is cleared and treated as anonymous.
func (s *Server) RequireUser(w http.ResponseWriter, r *http.Request) (*oauthmodel.User, bool) {
	sess := s.loadSession(r)

	if sess.Authenticated() && sess.Tokens().Expired(s.now()) {
		if sess.RefreshToken == "" {
			requestLogger(r).Info().Str("user_id", sess.User.ID).Msg("Access token expired, signing out")
			sess.Clear()
		} else if tokens, err := s.flow.Refresh(r.Context(), sess.RefreshToken); err != nil {
			requestLogger(r).Warn().Err(err).Str("user_id", sess.User.ID).Msg("Token refresh failed, signing out")
			sess.Clear()
		} else {
			sess.UpdateTokens(tokens)
			if err := sess.Commit(w, r); err != nil {
				requestLogger(r).Err(err).Msg("Failed to commit refreshed tokens")
			}
		}
	}

	if sess.Authenticated() {
		return sess.User, true
	}

	sess.RedirectTo = r.URL.Path
	s.commitAndRedirect(w, r, sess, RouteLogin)
	return nil, false
}

// RequireSessionAuth is middleware for HTML routes that need a signed in user.
// The user is available to the next handler through UserFromContext.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := s.RequireUser(w, r)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// UserFromContext returns the user stored by RequireSessionAuth.
func UserFromContext(ctx context.Context) (*oauthmodel.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*oauthmodel.User)
	return user, ok && user != nil
}
