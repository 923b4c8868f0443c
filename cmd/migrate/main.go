// Command migrate applies database migrations with goose.
//
// Usage: migrate [up|down|status] (default: up)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/nordvik/studioplan-backend/internal/app"
	"github.com/nordvik/studioplan-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.RunContext(ctx, command, db, "migrations"); err != nil {
		logger.Error("migration failed",
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("migrations applied", slog.String("command", command))
}
