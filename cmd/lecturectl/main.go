package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/internal/config"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/internal/logging"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Exit codes
const (
	exitError         = 1
	exitLoginRequired = 2
)

func main() {
	global := flag.NewFlagSet("lecturectl", flag.ExitOnError)
	configPath := global.String("config", "", "path to a YAML config file")
	_ = global.Parse(os.Args[1:])

	_ = godotenv.Load()

	c, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
	closer := logging.Setup(c)

	cli, err := newCommandLine(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}

	code := 0
	if err := cli.run(context.Background(), global.Args()); err != nil {
		switch {
		case errors.Is(err, errLoginRequired):
			fmt.Fprintln(os.Stderr, "login required")
			code = exitLoginRequired
		case errors.Is(err, errHelp):
			code = exitError
		default:
			log.Debug().Err(err).Msg("Command failed")
			fmt.Fprintln(os.Stderr, "error:", apiclient.UserMessage(err))
			code = exitError
		}
	}
	_ = closer.Close()
	os.Exit(code)
}

// newCommandLine wires the client core to the encrypted token file
func newCommandLine(c config.Config) (*commandLine, error) {
	path := c.GetTokenFile()
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("no token file configured: %w", err)
		}
		path = filepath.Join(dir, "lecturectl", "tokens")
	}

	store, err := session.NewFileStore(path, c.GetTokenPassphrase())
	if err != nil {
		return nil, err
	}

	cli := &commandLine{out: os.Stdout, loginRequired: &atomic.Bool{}}
	client, err := apiclient.New(c.GetBackendURL(), store,
		apiclient.WithTimeout(c.GetBackendTimeout()),
		apiclient.WithRefreshPath(c.GetRefreshPath()),
		apiclient.WithLoginRedirect(func(context.Context) {
			cli.loginRequired.Store(true)
		}),
	)
	if err != nil {
		return nil, err
	}

	cli.store = store
	cli.services = resources.NewServices(client, store)
	cli.services.Auth.SetLoginPath(c.GetLoginPath())
	return cli, nil
}
