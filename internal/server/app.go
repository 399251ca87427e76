// Package server wires the MindBalance backend together: configuration,
// PostgreSQL with migrations, the realtime hub, services and the gRPC
// endpoint, and runs it until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mindbalance/internal/logging"
	"github.com/dmitrijs2005/mindbalance/internal/server/config"
	"github.com/dmitrijs2005/mindbalance/internal/server/realtime"
	"github.com/dmitrijs2005/mindbalance/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mindbalance/internal/server/services"

	gs "github.com/dmitrijs2005/mindbalance/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

// sqlOpen is swapped in tests.
var sqlOpen = sql.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	hub := realtime.NewHub()
	us := services.NewUserService(db, rm, logger, c)
	ms := services.NewMoodService(db, rm, hub, logger)
	as := services.NewAssetService(c)

	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ms, as, hub, c.SecretKey)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is done or SIGINT/SIGTERM/SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
