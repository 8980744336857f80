package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/epicevents/crm/internal/crm/access"
	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/crm/telemetry"
	"github.com/epicevents/crm/internal/pkg/utils"
	"go.uber.org/zap"
)

// ClientRepository defines the storage interface for client records.
type ClientRepository interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListClientsBySalesContact(ctx context.Context, collaboratorID uint) ([]models.Client, error)
	UpdateClient(ctx context.Context, update *models.ClientUpdate) error
	DeleteClient(ctx context.Context, id uint) error
	ClientEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

// CreateClient carries the fields for a new client record.
type CreateClient struct {
	FullName    string
	Email       string
	Phone       string
	CompanyName string
}

// ClientService manages client records. Creation attributes the client
// to the acting sales collaborator; updates stay with that owner.
type ClientService struct {
	repo     ClientRepository
	gate     *access.Gate
	reporter telemetry.Reporter
	logger   *zap.Logger
}

// NewClientService constructs a ClientService.
func NewClientService(repo ClientRepository, gate *access.Gate, reporter telemetry.Reporter, logger *zap.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		gate:     gate,
		reporter: reporter,
		logger:   logger.Named("client_service"),
	}
}

// Create adds a client attributed to the acting collaborator.
func (s *ClientService) Create(ctx context.Context, actor *models.Collaborator, input CreateClient) (*models.Client, error) {
	if err := s.gate.Require(actor, access.AddClient); err != nil {
		return nil, err
	}
	if err := requireText("full name", input.FullName, 100); err != nil {
		return nil, err
	}
	if err := requireText("phone", input.Phone, 20); err != nil {
		return nil, err
	}
	if err := requireText("company name", input.CompanyName, 100); err != nil {
		return nil, err
	}
	if !models.ValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: malformed email address", e.ErrInvalidInput)
	}

	taken, err := s.repo.ClientEmailTaken(ctx, input.Email, 0)
	if err != nil {
		s.reporter.CaptureError(err, "create_client")
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", e.ErrDuplicateEmail, input.Email)
	}

	client := &models.Client{
		FullName:       input.FullName,
		Email:          input.Email,
		Phone:          input.Phone,
		CompanyName:    input.CompanyName,
		SalesContactID: utils.Ptr(actor.ID),
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		if errors.Is(err, e.ErrDuplicateEmail) {
			return nil, err
		}
		s.reporter.CaptureError(err, "create_client")
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.Uint("id", client.ID),
		zap.Uint("sales_contact_id", actor.ID),
	)
	return client, nil
}

// Get retrieves a client by ID.
func (s *ClientService) Get(ctx context.Context, actor *models.Collaborator, id uint) (*models.Client, error) {
	if err := s.gate.Require(actor, access.ViewClient); err != nil {
		return nil, err
	}
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "get_client")
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// List returns every client.
func (s *ClientService) List(ctx context.Context, actor *models.Collaborator) ([]models.Client, error) {
	if err := s.gate.Require(actor, access.ViewClient); err != nil {
		return nil, err
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		s.reporter.CaptureError(err, "list_clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// ListMine returns the clients attributed to the acting collaborator.
func (s *ClientService) ListMine(ctx context.Context, actor *models.Collaborator) ([]models.Client, error) {
	if err := s.gate.Require(actor, access.ViewClient); err != nil {
		return nil, err
	}
	clients, err := s.repo.ListClientsBySalesContact(ctx, actor.ID)
	if err != nil {
		s.reporter.CaptureError(err, "list_my_clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Update modifies a client record. Only the sales collaborator the
// client is attributed to may update it.
func (s *ClientService) Update(ctx context.Context, actor *models.Collaborator, update *models.ClientUpdate) (*models.Client, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if update.ID == 0 {
		return nil, fmt.Errorf("%w: invalid client ID", e.ErrInvalidInput)
	}
	if update.SalesContactID != nil {
		return nil, fmt.Errorf("%w: the sales contact is set at creation", e.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", e.ErrInvalidInput)
	}

	client, err := s.repo.GetClient(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_client")
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if actor.Role != models.RoleSales || client.SalesContactID == nil || *client.SalesContactID != actor.ID {
		return nil, s.gate.Deny(actor, access.UpdateClient,
			fmt.Sprintf("client %d is not attributed to collaborator %d", client.ID, actor.ID))
	}

	if err := optionalText("full name", update.FullName, 100); err != nil {
		return nil, err
	}
	if err := optionalText("phone", update.Phone, 20); err != nil {
		return nil, err
	}
	if err := optionalText("company name", update.CompanyName, 100); err != nil {
		return nil, err
	}
	if update.Email != nil {
		if !models.ValidEmail(*update.Email) {
			return nil, fmt.Errorf("%w: malformed email address", e.ErrInvalidInput)
		}
		taken, err := s.repo.ClientEmailTaken(ctx, *update.Email, update.ID)
		if err != nil {
			s.reporter.CaptureError(err, "update_client")
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", e.ErrDuplicateEmail, *update.Email)
		}
	}

	if err := s.repo.UpdateClient(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicateEmail) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_client")
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	updated, err := s.repo.GetClient(ctx, update.ID)
	if err != nil {
		s.reporter.CaptureError(err, "update_client")
		return nil, fmt.Errorf("failed to reload client: %w", err)
	}
	return updated, nil
}

// Delete removes a client record. Management only; the cascade takes
// the client's contracts and their events with it.
func (s *ClientService) Delete(ctx context.Context, actor *models.Collaborator, id uint) error {
	if actor == nil {
		return fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if actor.Role != models.RoleManagement {
		return s.gate.Deny(actor, access.DeleteClient,
			fmt.Sprintf("client deletion is reserved to management, role is %s", actor.Role))
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.reporter.CaptureError(err, "delete_client")
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted", zap.Uint("id", id))
	return nil
}
