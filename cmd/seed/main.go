// Seed creates the starter collaborator accounts, one per role, so a
// fresh installation has somebody who can log in. Running it again is
// harmless: existing usernames are left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/epicevents/crm/internal/crm/auth"
	"github.com/epicevents/crm/internal/crm/config"
	"github.com/epicevents/crm/internal/crm/db"
	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"go.uber.org/zap"
)

// starter describes one bootstrap account.
type starter struct {
	firstName      string
	lastName       string
	username       string
	email          string
	employeeNumber string
	password       string
	role           models.Role
}

var starters = []starter{
	{"Thomas", "Girard", "thomasg", "thomas.girard@epicevents.example", "EE-0001", "Manage123", models.RoleManagement},
	{"Alex", "Johnson", "alexj", "alex.johnson@epicevents.example", "EE-0002", "Sales1234", models.RoleSales},
	{"Emma", "Stone", "emmas", "emma.stone@epicevents.example", "EE-0003", "Support123", models.RoleSupport},
}

func main() {
	configPath := flag.String("config", "", "path to the settings file")
	adminPassword := flag.String("admin-password", "", "override the management account's password")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *adminPassword != "" {
		if err := auth.ValidatePassword(*adminPassword); err != nil {
			logger.Fatal("admin password rejected", zap.Error(err))
		}
		starters[0].password = *adminPassword
	}

	repo, err := db.NewRepository(&db.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN}, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := seed(context.Background(), repo, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete")
}

// seed inserts the missing starter accounts inside one transaction so
// a half-seeded database cannot result.
func seed(ctx context.Context, repo *db.Repository, logger *zap.Logger) error {
	return repo.WithTransaction(ctx, func(tx *db.Repository) error {
		for _, s := range starters {
			_, err := tx.GetCollaboratorByUsername(ctx, s.username)
			if err == nil {
				logger.Info("collaborator already present", zap.String("username", s.username))
				continue
			}
			if !errors.Is(err, e.ErrNotFound) {
				return fmt.Errorf("failed to look up %s: %w", s.username, err)
			}

			hash, err := auth.HashPassword(s.password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", s.username, err)
			}
			collaborator := &models.Collaborator{
				FirstName:      s.firstName,
				LastName:       s.lastName,
				Username:       s.username,
				Email:          s.email,
				EmployeeNumber: s.employeeNumber,
				PasswordHash:   hash,
				Role:           s.role,
			}
			if err := tx.CreateCollaborator(ctx, collaborator); err != nil {
				return fmt.Errorf("failed to create %s: %w", s.username, err)
			}
			logger.Info("collaborator created",
				zap.String("username", s.username),
				zap.String("role", string(s.role)),
			)
		}
		return nil
	})
}
