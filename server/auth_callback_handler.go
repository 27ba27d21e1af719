package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
)

// OAuthCallbackHandler completes a login (GET /auth/keycloak/callback): it
// checks state, exchanges the code with the verifier stored before the
// redirect, loads the user's profile and signs the session in.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.loadSession(r)

		// The pending login is consumed whatever the outcome.
		pending, ok := sess.TakePendingLogin()

		query := r.URL.Query()
		if errorParam := query.Get("error"); errorParam != "" {
			s.loginFailed(w, r, sess, fmt.Errorf("authorization failed: %s - %s", errorParam, query.Get("error_description")))
			return
		}
		if !ok {
			s.loginFailed(w, r, sess, errors.ErrMissingVerifier)
			return
		}

		code := query.Get("code")
		if code == "" {
			s.loginFailed(w, r, sess, fmt.Errorf("missing code parameter"))
			return
		}
		if query.Get("state") != pending.State {
			s.loginFailed(w, r, sess, errors.ErrStateMismatch)
			return
		}

		tokens, err := s.flow.Exchange(r.Context(), code, pending.CodeVerifier)
		if err != nil {
			s.loginFailed(w, r, sess, err)
			return
		}

		if err := s.flow.VerifyIDToken(r.Context(), tokens.IDToken, pending.Nonce); err != nil {
			s.loginFailed(w, r, sess, err)
			return
		}

		user, err := s.flow.UserInfo(r.Context(), tokens.AccessToken)
		if err != nil {
			s.loginFailed(w, r, sess, err)
			return
		}

		sess.SignIn(user, tokens)
		returnURL := localPath(sess.TakeRedirect(RouteProtected), RouteProtected)

		if err := sess.Commit(w, r); err != nil {
			sess.Clear()
			s.loginFailed(w, r, sess, err)
			return
		}
		requestLogger(r).Info().Str("user_id", user.ID).Msg("User signed in")
		http.Redirect(w, r, returnURL, http.StatusFound)
	}
}
