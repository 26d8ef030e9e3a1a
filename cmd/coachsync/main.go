package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fieldcoach/coachsync/internal/cli"
	"github.com/fieldcoach/coachsync/internal/config"
	"github.com/fieldcoach/coachsync/internal/db"
	"github.com/fieldcoach/coachsync/internal/remote"
	"github.com/fieldcoach/coachsync/internal/repository"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	cache := repository.NewSQLiteSessionCache(database)
	queueStore := repository.NewSQLiteChangeQueue(database)

	client := remote.NewHTTPClient(remote.Config{
		BaseURL: cfg.RemoteURL,
		Token:   cfg.Token,
		Timeout: cfg.RequestTimeout(),
	})

	status := syncer.NewMachine()
	queue := syncer.NewQueue(queueStore, nil)
	if err := queue.Restore(context.Background()); err != nil {
		return fmt.Errorf("restoring pending queue: %w", err)
	}

	app := &cli.App{
		Engine: syncer.NewOrchestrator(cache, queue, status, client, nil),
		Status: status,
		Probe:  client.Ping,
		Config: cfg,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
