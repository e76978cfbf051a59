// Package server initializes and runs the Feedline application server.
// It wires storage, the token service and the domain services together,
// handles graceful shutdown and starts the public HTTP endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/feedline/internal/logging"
	"github.com/dmitrijs2005/feedline/internal/server/auth"
	"github.com/dmitrijs2005/feedline/internal/server/config"
	"github.com/dmitrijs2005/feedline/internal/server/feed"
	"github.com/dmitrijs2005/feedline/internal/server/httpapi"
	"github.com/dmitrijs2005/feedline/internal/server/likes"
	"github.com/dmitrijs2005/feedline/internal/server/shared/db"
	"github.com/dmitrijs2005/feedline/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage db.RepositoryManager
	server  *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	rm, err := db.NewPostgresRepositoryManager(c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenService(users.CredentialSource{Repo: rm.Users()}, c)
	userService := users.NewService(rm.Users(), auth.NewPBKDF2Hasher(), tokens)
	ledger := likes.NewLedger(rm.Likes())
	aggregator := feed.NewAggregator(rm.Posts(), rm.Images(), ledger)

	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, userService, aggregator, ledger, tokens)

	return &App{config: c, logger: logger, storage: rm, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
