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
	"github.com/jrsteele09/go-todo-web/internal/config"
	"github.com/jrsteele09/go-todo-web/internal/logging"
	"github.com/jrsteele09/go-todo-web/server"
	"github.com/jrsteele09/go-todo-web/session"
	"github.com/jrsteele09/go-todo-web/todoapi"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(".env")
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	tokens, err := tokenRepo(c.GetDataFolder())
	if err != nil {
		return err
	}

	api := todoapi.New(c.GetAPIBaseURL())
	log.Info().Str("api", api.BaseURL()).Msg("Using remote task API")

	srv := &http.Server{Addr: c.GetPort(), Handler: server.New(c, api, tokens)}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// tokenRepo keeps durable token copies in memory unless a data folder is set.
func tokenRepo(folder string) (session.Repo, error) {
	if folder == "" {
		return session.NewInMemoryRepo(), nil
	}
	repo, err := session.OpenFileRepo(folder)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}
	log.Info().Str("path", repo.Path()).Msg("Persisting tokens")
	return repo, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
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
