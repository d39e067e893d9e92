// Command fakeapi serves an in-memory copy of the remote task API for local
// development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-todo-web/fakeapi"
	"github.com/jrsteele09/go-todo-web/internal/config"
	"github.com/jrsteele09/go-todo-web/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running fake API")
	}
}

func run() error {
	c, err := config.Load(".env")
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, c.GetEnv(), c.GetLogLevel())
	figure.NewFigure("fake api", "cybermedium", true).Print()
	fmt.Println()

	srv := &http.Server{
		Addr: c.GetFakeAPIPort(),
		Handler: fakeapi.New(fakeapi.Options{
			SigningKey: c.GetFakeAPISigningKey(),
			TokenTTL:   c.GetFakeAPITokenTTL(),
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Fake API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
