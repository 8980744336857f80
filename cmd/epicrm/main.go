package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/epicevents/crm/internal/crm/access"
	"github.com/epicevents/crm/internal/crm/auth"
	"github.com/epicevents/crm/internal/crm/cli"
	"github.com/epicevents/crm/internal/crm/config"
	"github.com/epicevents/crm/internal/crm/controller"
	"github.com/epicevents/crm/internal/crm/db"
	"github.com/epicevents/crm/internal/crm/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the settings file (default: epicrm.yaml in the working or user config directory)")
	fresh := flag.Bool("fresh", false, "discard any saved session and prompt for a login")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, logger, *fresh); err != nil {
		logger.Error("session ended with an error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, fresh bool) error {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// A throwaway secret keeps the login working out of the box;
		// sessions signed with it die with the process.
		secret = uuid.NewString()
		logger.Warn("auth.jwt_secret is not set, sessions will not survive a restart")
	}

	reporter, err := telemetry.NewReporter(cfg.Telemetry.DSN, cfg.Telemetry.Environment, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer reporter.Close()

	repo, err := db.NewRepository(&db.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	store, err := auth.NewSessionStore()
	if err != nil {
		return fmt.Errorf("failed to locate the session file: %w", err)
	}
	authService := auth.NewService(repo, store, auth.Config{
		JWTSecret:  secret,
		SessionTTL: cfg.Auth.SessionTTL,
	}, logger)

	gate := access.NewGate(reporter, logger)
	services := cli.Services{
		Auth:          authService,
		Collaborators: controller.NewCollaboratorService(repo, gate, reporter, logger),
		Clients:       controller.NewClientService(repo, gate, reporter, logger),
		Contracts:     controller.NewContractService(repo, gate, reporter, logger),
		Events:        controller.NewEventService(repo, gate, reporter, logger),
	}

	view := cli.NewView(os.Stdin, os.Stdout)
	app := cli.NewApp(view, services, logger)
	return app.Run(context.Background(), fresh)
}

// initLogger builds the zap logger described by the log settings. Logs
// go to stderr so they never mix into the menus on stdout.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Log.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
