package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/epicevents/crm/internal/crm/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.Collaborator{},
		&models.Client{},
		&models.Contract{},
		&models.Event{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return &Repository{db: db}
}

var testSeq int

// seedCollaborator inserts a collaborator with unique identity fields.
func seedCollaborator(t *testing.T, repo *Repository, role models.Role) *models.Collaborator {
	t.Helper()
	testSeq++
	collaborator := &models.Collaborator{
		FirstName:      "Test",
		LastName:       string(role),
		Username:       fmt.Sprintf("user%d", testSeq),
		Email:          fmt.Sprintf("user%d@epicevents.com", testSeq),
		EmployeeNumber: fmt.Sprintf("EE%04d", testSeq),
		PasswordHash:   "x",
		Role:           role,
	}
	require.NoError(t, repo.CreateCollaborator(context.Background(), collaborator))
	return collaborator
}

func seedClient(t *testing.T, repo *Repository, salesContactID uint) *models.Client {
	t.Helper()
	testSeq++
	client := &models.Client{
		FullName:       fmt.Sprintf("Client %d", testSeq),
		Email:          fmt.Sprintf("client%d@example.com", testSeq),
		Phone:          "+33600000000",
		CompanyName:    "Example Corp",
		SalesContactID: &salesContactID,
	}
	require.NoError(t, repo.CreateClient(context.Background(), client))
	return client
}

func seedContract(t *testing.T, repo *Repository, client *models.Client, status models.ContractStatus, remaining int64) *models.Contract {
	t.Helper()
	contract := &models.Contract{
		ClientID:        client.ID,
		SalesContactID:  client.SalesContactID,
		TotalAmount:     decimal.NewFromInt(1000),
		AmountRemaining: decimal.NewFromInt(remaining),
		Status:          status,
	}
	require.NoError(t, repo.CreateContract(context.Background(), contract))
	return contract
}

func seedEvent(t *testing.T, repo *Repository, contract *models.Contract, supportContactID *uint) *models.Event {
	t.Helper()
	testSeq++
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	event := &models.Event{
		ContractID:       contract.ID,
		Name:             fmt.Sprintf("Event %d", testSeq),
		ClientName:       "Client",
		ClientContact:    "client@example.com",
		StartDate:        start,
		EndDate:          start.Add(4 * time.Hour),
		SupportContactID: supportContactID,
		Location:         "53 Rue du Château, Candé-sur-Beuvron",
		Attendees:        75,
	}
	require.NoError(t, repo.CreateEvent(context.Background(), event))
	return event
}

// TestWithTransaction ensures writes inside the callback commit
// atomically through the bound repository.
func TestWithTransaction(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo *Repository) error {
		collaborator := &models.Collaborator{
			Username:       "txuser",
			Email:          "txuser@epicevents.com",
			EmployeeNumber: "EE9999",
			PasswordHash:   "x",
			Role:           models.RoleSales,
		}
		return txRepo.CreateCollaborator(ctx, collaborator)
	})
	require.NoError(t, err, "WithTransaction should execute successfully")

	_, err = repo.GetCollaboratorByUsername(ctx, "txuser")
	require.NoError(t, err, "collaborator should exist after transaction")
}
