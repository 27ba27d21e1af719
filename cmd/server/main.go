package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-keycloak-pkce/flow"
	"github.com/jrsteele09/go-keycloak-pkce/internal/config"
	"github.com/jrsteele09/go-keycloak-pkce/server"
	"github.com/jrsteele09/go-keycloak-pkce/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.New()
	setupLogging(c)

	if err := config.Validate(c); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	for {
		if err := run(c, stop); err != nil {
			log.Error().Err(err).Msg("Error running server, restarting")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func run(c config.Config, stop <-chan os.Signal) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	flowManager, err := flow.New(flow.SettingsFromConfig(c))
	if err != nil {
		return fmt.Errorf("flow.New: %w", err)
	}

	store, err := sessions.NewStore(sessions.StoreOptions{
		Secret: []byte(c.GetSessionSecret()),
		MaxAge: c.GetMaxSessionAge(),
		Secure: c.IsProduction(),
		Dir:    c.GetSessionDir(),
	})
	if err != nil {
		return fmt.Errorf("sessions.NewStore: %w", err)
	}

	handler, err := server.New(c, flowManager, store)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
