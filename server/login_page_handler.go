package server

import (
	"net/http"

	"github.com/jrsteele09/go-keycloak-pkce/flow"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName     string
	Error       string
	StartAction string
}

// LoginPageHandler displays the login prompt (GET /login). Signed in users
// are sent straight to the protected area.
func (s *Server) LoginPageHandler() (http.HandlerFunc, error) {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.loadSession(r)
		if sess.Authenticated() {
			http.Redirect(w, r, RouteProtected, http.StatusFound)
			return
		}

		data := LoginPageData{
			AppName:     s.appName,
			Error:       r.URL.Query().Get("error"),
			StartAction: RouteAuthStart,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			requestLogger(r).Err(err).Msg("Failed to render login template")
		}
	}, nil
}

// StartLoginHandler begins the authorization code flow (POST or GET
// /auth/keycloak). The PKCE verifier is committed to the session on the
// same response that redirects to the provider.
func (s *Server) StartLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.loadSession(r)

		authorizationURL, err := s.flow.AuthorizationURL(&sess.Data)
		if err != nil {
			requestLogger(r).Err(err).Msg("Failed to build authorization URL")
			http.Error(w, "Failed to start login", http.StatusInternalServerError)
			return
		}

		s.commitAndRedirect(w, r, sess, authorizationURL)
	}
}

// LogoutHandler ends the session (POST /logout). The local session is always
// destroyed; the browser then goes to the provider's end-session endpoint, or
// to the home page when there is no ID token to hint with.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.loadSession(r)
		logger := requestLogger(r)

		target := RouteIndex
		if logoutURL, err := s.flow.LogoutURL(sess.IDToken); err != nil {
			logger.Warn().Err(err).Msg("Logging out locally only")
		} else {
			target = logoutURL
		}

		if claims, err := flow.ReadIDTokenClaims(sess.IDToken); err == nil {
			logger.Info().Str("sub", claims.Subject).Str("sid", claims.SessionID).Msg("Logout")
		}

		if sess.RefreshToken != "" {
			if err := s.flow.Revoke(r.Context(), sess.RefreshToken, "refresh_token"); err != nil {
				logger.Warn().Err(err).Msg("Failed to revoke refresh token")
			}
		}

		if err := sess.Destroy(w, r); err != nil {
			logger.Err(err).Msg("Failed to destroy session")
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}
