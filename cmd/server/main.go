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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-authz/checkserver"
	"github.com/jrsteele09/go-oidc-authz/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnErr error) {
	defer func() {
		if r := recover(); r != nil {
			debug.PrintStack()
			returnErr = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	cfg := config.New()
	configureLogging(cfg.GetEnv())
	displayAppname(cfg.GetAppName())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	selector, err := cfg.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load filter chains: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.GetPort(),
		Handler: checkserver.New(selector, cfg.GetEnv()),
	}

	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func configureLogging(env string) {
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("checkserver listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("checkserver: ListenAndServe failed")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
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
