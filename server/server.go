package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-keycloak-pkce/flow"
	"github.com/jrsteele09/go-keycloak-pkce/internal/config"
	"github.com/jrsteele09/go-keycloak-pkce/sessions"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	appName  string
	mux      *http.ServeMux
	routes   []string
	flow     *flow.Manager
	sessions *sessions.Store
	now      func() time.Time
}

// New wires the HTTP surface to an explicitly passed flow manager and session
// store; neither is held in package level state.
func New(config config.Config, flowManager *flow.Manager, store *sessions.Store) (*Server, error) {
	if flowManager == nil {
		return nil, fmt.Errorf("[Server New] flow manager is required")
	}
	if store == nil {
		return nil, fmt.Errorf("[Server New] session store is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		appName:  config.GetAppName(),
		mux:      http.NewServeMux(),
		flow:     flowManager,
		sessions: store,
		now:      time.Now,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise routes: %w", err)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Debug().Msgf("%-16s %s", colourMethod(method), path)
	}
}
