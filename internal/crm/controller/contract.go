package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/epicevents/crm/internal/crm/access"
	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/crm/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ContractRepository defines the storage interface for contracts and
// the related records the service needs to resolve.
type ContractRepository interface {
	CreateContract(ctx context.Context, contract *models.Contract) error
	GetContract(ctx context.Context, id uint) (*models.Contract, error)
	ListContracts(ctx context.Context, filter models.ContractFilter) ([]models.Contract, error)
	ListContractsBySalesContact(ctx context.Context, collaboratorID uint, filter models.ContractFilter) ([]models.Contract, error)
	UpdateContract(ctx context.Context, update *models.ContractUpdate) error
	DeleteContract(ctx context.Context, id uint) error
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetCollaborator(ctx context.Context, id uint) (*models.Collaborator, error)
}

// CreateContract carries the fields for a new contract. The sales
// contact is inherited from the client, never passed in.
type CreateContract struct {
	ClientID        uint
	TotalAmount     decimal.Decimal
	AmountRemaining decimal.Decimal
	Status          models.ContractStatus
}

// ContractService manages contracts. Creation and deletion are
// management operations; updates are shared between management and the
// sales collaborator attributed to the contract's client.
type ContractService struct {
	repo     ContractRepository
	gate     *access.Gate
	reporter telemetry.Reporter
	logger   *zap.Logger
}

// NewContractService constructs a ContractService.
func NewContractService(repo ContractRepository, gate *access.Gate, reporter telemetry.Reporter, logger *zap.Logger) *ContractService {
	return &ContractService{
		repo:     repo,
		gate:     gate,
		reporter: reporter,
		logger:   logger.Named("contract_service"),
	}
}

// Create adds a contract for an existing client. An empty status
// defaults to not signed.
func (s *ContractService) Create(ctx context.Context, actor *models.Collaborator, input CreateContract) (*models.Contract, error) {
	if err := s.gate.Require(actor, access.ManageContracts); err != nil {
		return nil, err
	}

	client, err := s.repo.GetClient(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %d", e.ErrNotFound, input.ClientID)
		}
		s.reporter.CaptureError(err, "create_contract")
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	status := input.Status
	if status == "" {
		status = models.ContractNotSigned
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown contract status %q", e.ErrInvalidInput, status)
	}
	if err := validAmounts(input.TotalAmount, input.AmountRemaining); err != nil {
		return nil, err
	}

	contract := &models.Contract{
		ClientID:        client.ID,
		SalesContactID:  client.SalesContactID,
		TotalAmount:     input.TotalAmount,
		AmountRemaining: input.AmountRemaining,
		Status:          status,
	}
	if err := s.repo.CreateContract(ctx, contract); err != nil {
		s.reporter.CaptureError(err, "create_contract")
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	s.logger.Info("contract created",
		zap.Uint("id", contract.ID),
		zap.Uint("client_id", client.ID),
		zap.String("status", string(contract.Status)),
	)
	return contract, nil
}

// Get retrieves a contract by ID.
func (s *ContractService) Get(ctx context.Context, actor *models.Collaborator, id uint) (*models.Contract, error) {
	if err := s.gate.Require(actor, access.ViewContract); err != nil {
		return nil, err
	}
	contract, err := s.repo.GetContract(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "get_contract")
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

// List returns contracts narrowed by the filter.
func (s *ContractService) List(ctx context.Context, actor *models.Collaborator, filter models.ContractFilter) ([]models.Contract, error) {
	if err := s.gate.Require(actor, access.ViewContract); err != nil {
		return nil, err
	}
	contracts, err := s.repo.ListContracts(ctx, filter)
	if err != nil {
		s.reporter.CaptureError(err, "list_contracts")
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// ListMine returns the contracts of the clients attributed to the
// acting collaborator, narrowed by the filter.
func (s *ContractService) ListMine(ctx context.Context, actor *models.Collaborator, filter models.ContractFilter) ([]models.Contract, error) {
	if err := s.gate.Require(actor, access.ViewContract); err != nil {
		return nil, err
	}
	contracts, err := s.repo.ListContractsBySalesContact(ctx, actor.ID, filter)
	if err != nil {
		s.reporter.CaptureError(err, "list_my_contracts")
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// Update modifies a contract. Management may update any contract,
// sales only those of their own clients, and reassigning the sales
// contact stays with management.
func (s *ContractService) Update(ctx context.Context, actor *models.Collaborator, update *models.ContractUpdate) (*models.Contract, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if update.ID == 0 {
		return nil, fmt.Errorf("%w: invalid contract ID", e.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", e.ErrInvalidInput)
	}

	current, err := s.repo.GetContract(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_contract")
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if !access.Allowed(actor.Role, access.ManageContracts) {
		owned := actor.Role == models.RoleSales &&
			current.Client.SalesContactID != nil && *current.Client.SalesContactID == actor.ID
		if !owned {
			return nil, s.gate.Deny(actor, access.UpdateContract,
				fmt.Sprintf("contract %d does not belong to a client of collaborator %d", current.ID, actor.ID))
		}
	}

	if update.SalesContactID != nil {
		if actor.Role != models.RoleManagement {
			return nil, s.gate.Deny(actor, access.UpdateContract,
				"reassigning the sales contact is reserved to management")
		}
		target, err := s.repo.GetCollaborator(ctx, *update.SalesContactID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, fmt.Errorf("%w: sales contact %d not found", e.ErrInvalidInput, *update.SalesContactID)
			}
			s.reporter.CaptureError(err, "update_contract")
			return nil, fmt.Errorf("failed to get sales contact: %w", err)
		}
		if target.Role != models.RoleSales {
			return nil, fmt.Errorf("%w: collaborator %d is not on the sales team", e.ErrInvalidInput, target.ID)
		}
	}

	total := current.TotalAmount
	if update.TotalAmount != nil {
		total = *update.TotalAmount
	}
	remaining := current.AmountRemaining
	if update.AmountRemaining != nil {
		remaining = *update.AmountRemaining
	}
	if err := validAmounts(total, remaining); err != nil {
		return nil, err
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown contract status %q", e.ErrInvalidInput, *update.Status)
	}

	if err := s.repo.UpdateContract(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_contract")
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	if update.Status != nil && *update.Status == models.ContractSigned && !current.Signed() {
		s.logger.Info("contract signed",
			zap.Uint("id", current.ID),
			zap.Uint("client_id", current.ClientID),
		)
	}

	updated, err := s.repo.GetContract(ctx, update.ID)
	if err != nil {
		s.reporter.CaptureError(err, "update_contract")
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}
	return updated, nil
}

// Delete removes a contract and, through the cascade, its events.
// Management only.
func (s *ContractService) Delete(ctx context.Context, actor *models.Collaborator, id uint) error {
	if actor == nil {
		return fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if actor.Role != models.RoleManagement {
		return s.gate.Deny(actor, access.DeleteContract,
			fmt.Sprintf("contract deletion is reserved to management, role is %s", actor.Role))
	}
	if err := s.repo.DeleteContract(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.reporter.CaptureError(err, "delete_contract")
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	s.logger.Info("contract deleted", zap.Uint("id", id))
	return nil
}

// validAmounts checks the money invariants shared by create and
// update.
func validAmounts(total, remaining decimal.Decimal) error {
	if total.IsNegative() {
		return fmt.Errorf("%w: total amount cannot be negative", e.ErrInvalidInput)
	}
	if remaining.IsNegative() {
		return fmt.Errorf("%w: amount remaining cannot be negative", e.ErrInvalidInput)
	}
	if remaining.GreaterThan(total) {
		return fmt.Errorf("%w: amount remaining cannot exceed the total amount", e.ErrInvalidInput)
	}
	return nil
}
