package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/studentdb/internal/application"
	"github.com/JonMunkholm/studentdb/internal/config"
	"github.com/JonMunkholm/studentdb/internal/core"
	"github.com/JonMunkholm/studentdb/internal/logging"
	"github.com/JonMunkholm/studentdb/internal/store"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logCloser, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx := logging.NewSession(context.Background())
	log := logging.FromContext(ctx)

	log.Info("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	ref, err := config.LoadReference(cfg.Reference.File)
	if err != nil {
		log.Error("failed to load reference data", "file", cfg.Reference.File, "error", err)
		os.Exit(1)
	}

	db, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Stderr.WriteString("Error! Cannot create the database connection.\n")
		os.Exit(1)
	}

	// Close the store on interrupt; the console read cannot be cancelled.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("interrupted, closing store")
		db.Close()
		logCloser.Close()
		os.Exit(130)
	}()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("failed to ensure schema", "error", err)
		db.Close()
		os.Exit(1)
	}

	log.Info("connected to store", "dialect", db.Dialect(), "target", db.Target())

	svc := core.NewService(db, ref, core.WithSeed(cfg.Import.Seed))

	echo := !term.IsTerminal(int(os.Stdin.Fd()))
	shell := application.NewShell(svc, application.NewConsole(os.Stdin, os.Stdout, echo), cfg.Import.File)

	runErr := shell.Run(ctx)

	if err := db.Close(); err != nil {
		log.Error("failed to close store", "error", err)
	}
	if runErr != nil {
		log.Error("shell stopped", "error", runErr)
		logCloser.Close()
		os.Exit(1)
	}
}
