package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/epicevents/crm/internal/crm/access"
	"github.com/epicevents/crm/internal/crm/auth"
	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/crm/telemetry"
	"go.uber.org/zap"
)

// CollaboratorRepository defines the storage interface for accounts.
type CollaboratorRepository interface {
	CreateCollaborator(ctx context.Context, collaborator *models.Collaborator) error
	GetCollaborator(ctx context.Context, id uint) (*models.Collaborator, error)
	ListCollaborators(ctx context.Context) ([]models.Collaborator, error)
	ListCollaboratorsByRole(ctx context.Context, role models.Role) ([]models.Collaborator, error)
	UpdateCollaborator(ctx context.Context, update *models.CollaboratorUpdate) error
	DeleteCollaborator(ctx context.Context, id uint) error
	CollaboratorUsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	CollaboratorEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	CollaboratorEmployeeNumberTaken(ctx context.Context, employeeNumber string, excludeID uint) (bool, error)
}

// RegisterCollaborator carries the fields for a new account.
type RegisterCollaborator struct {
	FirstName      string
	LastName       string
	Username       string
	Email          string
	EmployeeNumber string
	Password       string
	Role           models.Role
}

// CollaboratorService manages employee accounts. Every operation is
// restricted to the management team.
type CollaboratorService struct {
	repo     CollaboratorRepository
	gate     *access.Gate
	reporter telemetry.Reporter
	logger   *zap.Logger
}

// NewCollaboratorService constructs a CollaboratorService.
func NewCollaboratorService(repo CollaboratorRepository, gate *access.Gate, reporter telemetry.Reporter, logger *zap.Logger) *CollaboratorService {
	return &CollaboratorService{
		repo:     repo,
		gate:     gate,
		reporter: reporter,
		logger:   logger.Named("collaborator_service"),
	}
}

// Register creates an account after validating the identity fields,
// the password rule and the uniqueness of username, email and employee
// number.
func (s *CollaboratorService) Register(ctx context.Context, actor *models.Collaborator, input RegisterCollaborator) (*models.Collaborator, error) {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return nil, err
	}
	if err := requireText("first name", input.FirstName, 50); err != nil {
		return nil, err
	}
	if err := requireText("last name", input.LastName, 50); err != nil {
		return nil, err
	}
	if err := requireText("username", input.Username, 50); err != nil {
		return nil, err
	}
	if err := requireText("employee number", input.EmployeeNumber, 50); err != nil {
		return nil, err
	}
	if !models.ValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: malformed email address", e.ErrInvalidInput)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", e.ErrInvalidInput, input.Role)
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	taken, err := s.repo.CollaboratorUsernameTaken(ctx, input.Username, 0)
	if err != nil {
		s.reporter.CaptureError(err, "register_collaborator")
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", e.ErrDuplicateUsername, input.Username)
	}

	taken, err = s.repo.CollaboratorEmailTaken(ctx, input.Email, 0)
	if err != nil {
		s.reporter.CaptureError(err, "register_collaborator")
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", e.ErrDuplicateEmail, input.Email)
	}

	taken, err = s.repo.CollaboratorEmployeeNumberTaken(ctx, input.EmployeeNumber, 0)
	if err != nil {
		s.reporter.CaptureError(err, "register_collaborator")
		return nil, fmt.Errorf("failed to check employee number: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", e.ErrDuplicateEmployee, input.EmployeeNumber)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	collaborator := &models.Collaborator{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Username:       input.Username,
		Email:          input.Email,
		EmployeeNumber: input.EmployeeNumber,
		PasswordHash:   hash,
		Role:           input.Role,
	}
	if err := s.repo.CreateCollaborator(ctx, collaborator); err != nil {
		if errors.Is(err, e.ErrDuplicateUsername) {
			return nil, err
		}
		s.reporter.CaptureError(err, "register_collaborator")
		return nil, fmt.Errorf("failed to create collaborator: %w", err)
	}

	s.logger.Info("collaborator registered",
		zap.Uint("id", collaborator.ID),
		zap.String("username", collaborator.Username),
		zap.String("role", string(collaborator.Role)),
	)
	return collaborator, nil
}

// Get retrieves an account by ID.
func (s *CollaboratorService) Get(ctx context.Context, actor *models.Collaborator, id uint) (*models.Collaborator, error) {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return nil, err
	}
	collaborator, err := s.repo.GetCollaborator(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "get_collaborator")
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	return collaborator, nil
}

// List returns every active account.
func (s *CollaboratorService) List(ctx context.Context, actor *models.Collaborator) ([]models.Collaborator, error) {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return nil, err
	}
	collaborators, err := s.repo.ListCollaborators(ctx)
	if err != nil {
		s.reporter.CaptureError(err, "list_collaborators")
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, nil
}

// ListByRole returns the active accounts of one team.
func (s *CollaboratorService) ListByRole(ctx context.Context, actor *models.Collaborator, role models.Role) ([]models.Collaborator, error) {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", e.ErrInvalidInput, role)
	}
	collaborators, err := s.repo.ListCollaboratorsByRole(ctx, role)
	if err != nil {
		s.reporter.CaptureError(err, "list_collaborators_by_role")
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, nil
}

// Update modifies the identity fields of an account, re-checking
// uniqueness for any changed ones. Password changes go through
// ChangePassword.
func (s *CollaboratorService) Update(ctx context.Context, actor *models.Collaborator, update *models.CollaboratorUpdate) (*models.Collaborator, error) {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return nil, err
	}
	if update.ID == 0 {
		return nil, fmt.Errorf("%w: invalid collaborator ID", e.ErrInvalidInput)
	}
	if update.PasswordHash != nil {
		return nil, fmt.Errorf("%w: password changes go through ChangePassword", e.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", e.ErrInvalidInput)
	}
	if err := optionalText("first name", update.FirstName, 50); err != nil {
		return nil, err
	}
	if err := optionalText("last name", update.LastName, 50); err != nil {
		return nil, err
	}
	if err := optionalText("username", update.Username, 50); err != nil {
		return nil, err
	}
	if err := optionalText("employee number", update.EmployeeNumber, 50); err != nil {
		return nil, err
	}
	if update.Email != nil && !models.ValidEmail(*update.Email) {
		return nil, fmt.Errorf("%w: malformed email address", e.ErrInvalidInput)
	}
	if update.Role != nil && !update.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", e.ErrInvalidInput, *update.Role)
	}

	if update.Username != nil {
		taken, err := s.repo.CollaboratorUsernameTaken(ctx, *update.Username, update.ID)
		if err != nil {
			s.reporter.CaptureError(err, "update_collaborator")
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", e.ErrDuplicateUsername, *update.Username)
		}
	}
	if update.Email != nil {
		taken, err := s.repo.CollaboratorEmailTaken(ctx, *update.Email, update.ID)
		if err != nil {
			s.reporter.CaptureError(err, "update_collaborator")
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", e.ErrDuplicateEmail, *update.Email)
		}
	}
	if update.EmployeeNumber != nil {
		taken, err := s.repo.CollaboratorEmployeeNumberTaken(ctx, *update.EmployeeNumber, update.ID)
		if err != nil {
			s.reporter.CaptureError(err, "update_collaborator")
			return nil, fmt.Errorf("failed to check employee number: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", e.ErrDuplicateEmployee, *update.EmployeeNumber)
		}
	}

	if err := s.repo.UpdateCollaborator(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicateUsername) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_collaborator")
		return nil, fmt.Errorf("failed to update collaborator: %w", err)
	}

	updated, err := s.repo.GetCollaborator(ctx, update.ID)
	if err != nil {
		s.reporter.CaptureError(err, "update_collaborator")
		return nil, fmt.Errorf("failed to reload collaborator: %w", err)
	}
	return updated, nil
}

// ChangePassword validates the new password and stores its hash.
func (s *CollaboratorService) ChangePassword(ctx context.Context, actor *models.Collaborator, id uint, newPassword string) error {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid collaborator ID", e.ErrInvalidInput)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	update := &models.CollaboratorUpdate{ID: id, PasswordHash: &hash}
	if err := s.repo.UpdateCollaborator(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.reporter.CaptureError(err, "change_password")
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// Delete removes an account through the soft delete. The actor may not
// remove the account they are logged in with.
func (s *CollaboratorService) Delete(ctx context.Context, actor *models.Collaborator, id uint) error {
	if err := s.gate.Require(actor, access.ManageCollaborators); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete the account you are logged in with", e.ErrInvalidInput)
	}
	if err := s.repo.DeleteCollaborator(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.reporter.CaptureError(err, "delete_collaborator")
		return fmt.Errorf("failed to delete collaborator: %w", err)
	}

	s.logger.Info("collaborator deleted", zap.Uint("id", id))
	return nil
}
