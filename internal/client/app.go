package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-family-tree/internal/adapter"
	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/atotto/clipboard"
)

var ErrNotLoggedIn = errors.New("not logged in, run \"familyctl login\" first")

// AdapterFactory builds the transport once command-line overrides have been
// applied to the adapter config.
type AdapterFactory func(cfg config.ClientAdapter, log *logger.Logger) (adapter.ServerAdapter, error)

type App struct {
	cfg        *config.ClientConfig
	newAdapter AdapterFactory
	tokens     adapter.TokenStore
	buildInfo  models.AppBuildInfo

	server adapter.ServerAdapter

	in        *bufio.Reader
	out       io.Writer
	copyToken func(string) error

	logger *logger.Logger
}

func NewApp(cfg *config.ClientConfig, newAdapter AdapterFactory, tokens adapter.TokenStore, buildInfo models.AppBuildInfo, log *logger.Logger) *App {
	return &App{
		cfg:        cfg,
		newAdapter: newAdapter,
		tokens:     tokens,
		buildInfo:  buildInfo,
		copyToken:  clipboard.WriteAll,
		logger:     log,
	}
}

// Run parses args and executes the matching command, writing its output to
// out and reading prompted input from in.
func (a *App) Run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	a.in = bufio.NewReader(in)
	a.out = out

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	return root.ExecuteContext(ctx)
}

// connect applies overrides, builds the adapter and restores the saved
// session token.
func (a *App) connect(server string) error {
	if server != "" {
		a.cfg.Adapter.HTTPAddress = server
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	srv, err := a.newAdapter(a.cfg.Adapter, a.logger)
	if err != nil {
		return err
	}

	token, err := a.tokens.Load()
	if err != nil {
		a.logger.Warn().Err(err).Str("func", "*App.connect").Msg("ignoring unreadable token file")
	}
	if token != "" {
		srv.SetToken(token)
	}

	a.server = srv
	return nil
}

// requireSession fails early instead of letting the server answer 401.
func (a *App) requireSession() error {
	if a.server.Token() == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// prompt asks for a value on the input stream when the flag was not given.
func (a *App) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading %s: %w", strings.ToLower(label), err)
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return line, nil
}

// sessionExpired drops the saved token after the server rejected it.
func (a *App) sessionExpired(err error) error {
	if errors.Is(err, adapter.ErrUnauthorized) {
		if clearErr := a.tokens.Clear(); clearErr != nil {
			a.logger.Warn().Err(clearErr).Str("func", "*App.sessionExpired").Msg("error clearing token file")
		}
		return fmt.Errorf("%w (session cleared, log in again)", err)
	}
	return err
}
