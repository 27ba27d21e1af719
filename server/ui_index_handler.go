package server

import (
	"encoding/json"
	"net/http"
)

// IndexHandler renders the home page
func (s *Server) IndexHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName":   s.appName,
			"Protected": RouteProtected,
			"Login":     RouteLogin,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			requestLogger(r).Err(err).Msg("Failed to render index template")
		}
	}, nil
}

// ProtectedHandler renders the signed in user's profile. It must run behind
// RequireSessionAuth.
func (s *Server) ProtectedHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("protected.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, RouteLogin, http.StatusFound)
			return
		}

		claims, err := json.MarshalIndent(user.Claims, "", "  ")
		if err != nil {
			claims = []byte("{}")
		}

		data := map[string]interface{}{
			"AppName":     s.appName,
			"DisplayName": user.DisplayName(),
			"Email":       user.Email,
			"Roles":       user.Roles,
			"Claims":      string(claims),
			"Logout":      RouteLogout,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		w.Header().Set("Cache-Control", "no-store")
		if err := tmpl.Execute(w, data); err != nil {
			requestLogger(r).Err(err).Msg("Failed to render protected template")
		}
	}, nil
}
