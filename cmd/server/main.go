package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-lecturer-console/internal/config"
	"github.com/jrsteele09/go-lecturer-console/internal/logging"
	"github.com/jrsteele09/go-lecturer-console/server"
	"github.com/jrsteele09/go-lecturer-console/server/loginsession"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "console:session:"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	for {
		if err := run(*configPath); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run(configPath string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("reason", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.MustLoad(configPath)
	closer := logging.Setup(c)
	defer closer.Close()

	displayAppname(c.GetAppName())

	repo, closeRepo, err := loginSessionRepo(c)
	if err != nil {
		return err
	}
	defer closeRepo()

	handler, err := server.New(c, repo)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// loginSessionRepo keeps sessions in Redis when an address is configured, in memory otherwise
func loginSessionRepo(c config.Config) (loginsession.Repo, func(), error) {
	addr := c.GetRedisAddr()
	if addr == "" {
		log.Info().Msg("Login sessions kept in memory")
		return loginsession.NewInMemoryRepo(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo, err := loginsession.NewRedisRepo(ctx, addr, redisKeyPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("loginsession.NewRedisRepo: %w", err)
	}
	log.Info().Str("addr", addr).Msg("Login sessions kept in Redis")
	return repo, func() { _ = repo.Close() }, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
