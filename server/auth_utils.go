package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
	"github.com/jrsteele09/go-keycloak-pkce/sessions"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	// loginFailedMessage is all the browser is told about a failed login.
	// Provider details go to the log.
	loginFailedMessage = "Login failed, please try again"
)

var loginFailedURL = RouteLogin + "?error=" + url.QueryEscape(loginFailedMessage)

// loadSession reads the browser session. An unreadable cookie is logged and
// replaced by an empty, anonymous session.
func (s *Server) loadSession(r *http.Request) *sessions.Session {
	sess, err := s.sessions.Get(r)
	if err != nil {
		requestLogger(r).Warn().Err(err).Msg("Discarding unreadable session")
	}
	return sess
}

// commitAndRedirect saves the session on the same response as the redirect.
func (s *Server) commitAndRedirect(w http.ResponseWriter, r *http.Request, sess *sessions.Session, location string) {
	if err := sess.Commit(w, r); err != nil {
		requestLogger(r).Err(err).Msg("Failed to commit session")
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// loginFailed logs err with whatever the provider returned and sends the
// browser back to the login page with a generic message. The redirect is sent
// even when the session cannot be saved.
func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, sess *sessions.Session, err error) {
	logger := requestLogger(r)
	event := logger.Error().Err(err)

	var exchangeErr *errors.TokenExchangeError
	var userInfoErr *errors.UserInfoError
	switch {
	case errors.As(err, &exchangeErr):
		event = event.Int("status", exchangeErr.Status).Str("body", exchangeErr.Body)
	case errors.As(err, &userInfoErr):
		event = event.Int("status", userInfoErr.Status).Str("body", userInfoErr.Body)
	}
	event.Msg("Login failed")

	if err := sess.Commit(w, r); err != nil {
		logger.Err(err).Msg("Failed to commit session after failed login")
	}
	http.Redirect(w, r, loginFailedURL, http.StatusFound)
}

// localPath returns p when it is a path on this site, otherwise fallback.
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}
