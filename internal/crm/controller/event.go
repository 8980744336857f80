package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epicevents/crm/internal/crm/access"
	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/epicevents/crm/internal/crm/telemetry"
	"github.com/epicevents/crm/internal/pkg/utils"
	"go.uber.org/zap"
)

// EventRepository defines the storage interface for events and the
// related records the service needs to resolve.
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsBySupportContact(ctx context.Context, collaboratorID uint) ([]models.Event, error)
	ListEventsWithoutSupport(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, update *models.EventUpdate) error
	DeleteEvent(ctx context.Context, id uint) error
	GetContract(ctx context.Context, id uint) (*models.Contract, error)
	GetCollaborator(ctx context.Context, id uint) (*models.Collaborator, error)
}

// CreateEvent carries the fields for a new event. The client name is
// denormalized from the contract's client, and the support contact
// stays unset until management assigns one.
type CreateEvent struct {
	ContractID    uint
	Name          string
	ClientContact string
	StartDate     time.Time
	EndDate       time.Time
	Location      string
	Attendees     int
	Notes         string
}

// EventService manages events. Sales create them for signed contracts
// of their own clients, management assigns the support contact, and
// the assigned support collaborator runs the updates.
type EventService struct {
	repo     EventRepository
	gate     *access.Gate
	reporter telemetry.Reporter
	logger   *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo EventRepository, gate *access.Gate, reporter telemetry.Reporter, logger *zap.Logger) *EventService {
	return &EventService{
		repo:     repo,
		gate:     gate,
		reporter: reporter,
		logger:   logger.Named("event_service"),
	}
}

// Create adds an event for a signed contract of one of the acting
// collaborator's clients.
func (s *EventService) Create(ctx context.Context, actor *models.Collaborator, input CreateEvent) (*models.Event, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if actor.Role != models.RoleSales {
		return nil, s.gate.Deny(actor, access.AddEvent,
			fmt.Sprintf("event creation is reserved to sales, role is %s", actor.Role))
	}

	contract, err := s.repo.GetContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: contract %d", e.ErrNotFound, input.ContractID)
		}
		s.reporter.CaptureError(err, "create_event")
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if contract.Client.SalesContactID == nil || *contract.Client.SalesContactID != actor.ID {
		return nil, s.gate.Deny(actor, access.AddEvent,
			fmt.Sprintf("contract %d does not belong to a client of collaborator %d", contract.ID, actor.ID))
	}
	if !contract.Signed() {
		return nil, fmt.Errorf("%w: contract %d", e.ErrContractNotSigned, contract.ID)
	}

	if err := requireText("name", input.Name, 100); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ClientContact) == "" {
		return nil, fmt.Errorf("%w: client contact cannot be empty", e.ErrInvalidInput)
	}
	if err := requireText("location", input.Location, 300); err != nil {
		return nil, err
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", e.ErrInvalidInput)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: the end date must be after the start date", e.ErrInvalidInput)
	}
	if input.Attendees < 0 {
		return nil, fmt.Errorf("%w: attendees cannot be negative", e.ErrInvalidInput)
	}

	event := &models.Event{
		ContractID:    contract.ID,
		Name:          input.Name,
		ClientName:    contract.Client.FullName,
		ClientContact: input.ClientContact,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Location:      input.Location,
		Attendees:     input.Attendees,
		Notes:         input.Notes,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		s.reporter.CaptureError(err, "create_event")
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("event created",
		zap.Uint("id", event.ID),
		zap.Uint("contract_id", contract.ID),
	)
	return event, nil
}

// Get retrieves an event by ID.
func (s *EventService) Get(ctx context.Context, actor *models.Collaborator, id uint) (*models.Event, error) {
	if err := s.gate.Require(actor, access.ViewEvent); err != nil {
		return nil, err
	}
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "get_event")
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// List returns every event.
func (s *EventService) List(ctx context.Context, actor *models.Collaborator) ([]models.Event, error) {
	if err := s.gate.Require(actor, access.ViewEvent); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		s.reporter.CaptureError(err, "list_events")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListMine returns the events assigned to the acting collaborator.
func (s *EventService) ListMine(ctx context.Context, actor *models.Collaborator) ([]models.Event, error) {
	if err := s.gate.Require(actor, access.ViewEvent); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEventsBySupportContact(ctx, actor.ID)
	if err != nil {
		s.reporter.CaptureError(err, "list_my_events")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListWithoutSupport returns the events that still need a support
// contact.
func (s *EventService) ListWithoutSupport(ctx context.Context, actor *models.Collaborator) ([]models.Event, error) {
	if err := s.gate.Require(actor, access.ViewEvent); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEventsWithoutSupport(ctx)
	if err != nil {
		s.reporter.CaptureError(err, "list_events_without_support")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// AssignSupport sets the support collaborator running an event.
// Management only; the target must hold the support role.
func (s *EventService) AssignSupport(ctx context.Context, actor *models.Collaborator, eventID, supportID uint) (*models.Event, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if actor.Role != models.RoleManagement {
		return nil, s.gate.Deny(actor, access.AssignSupport,
			fmt.Sprintf("assigning support is reserved to management, role is %s", actor.Role))
	}

	target, err := s.repo.GetCollaborator(ctx, supportID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: support contact %d not found", e.ErrInvalidInput, supportID)
		}
		s.reporter.CaptureError(err, "assign_support")
		return nil, fmt.Errorf("failed to get support contact: %w", err)
	}
	if target.Role != models.RoleSupport {
		return nil, fmt.Errorf("%w: collaborator %d is not on the support team", e.ErrInvalidInput, target.ID)
	}

	update := &models.EventUpdate{ID: eventID, SupportContactID: utils.Ptr(target.ID)}
	if err := s.repo.UpdateEvent(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "assign_support")
		return nil, fmt.Errorf("failed to assign support: %w", err)
	}

	s.logger.Info("support assigned",
		zap.Uint("event_id", eventID),
		zap.Uint("support_contact_id", target.ID),
	)

	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		s.reporter.CaptureError(err, "assign_support")
		return nil, fmt.Errorf("failed to reload event: %w", err)
	}
	return event, nil
}

// Update modifies an event. Only the assigned support collaborator may
// update it; changing the assignment goes through AssignSupport.
func (s *EventService) Update(ctx context.Context, actor *models.Collaborator, update *models.EventUpdate) (*models.Event, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if update.ID == 0 {
		return nil, fmt.Errorf("%w: invalid event ID", e.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", e.ErrInvalidInput)
	}
	if update.SupportContactID != nil {
		return nil, s.gate.Deny(actor, access.AssignSupport,
			"changing the support contact goes through the assignment operation")
	}

	event, err := s.repo.GetEvent(ctx, update.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_event")
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if actor.Role != models.RoleSupport || event.SupportContactID == nil || *event.SupportContactID != actor.ID {
		return nil, s.gate.Deny(actor, access.UpdateEvent,
			fmt.Sprintf("event %d is not assigned to collaborator %d", event.ID, actor.ID))
	}

	if err := optionalText("name", update.Name, 100); err != nil {
		return nil, err
	}
	if err := optionalText("client name", update.ClientName, 100); err != nil {
		return nil, err
	}
	if err := optionalText("location", update.Location, 300); err != nil {
		return nil, err
	}
	start := event.StartDate
	if update.StartDate != nil {
		start = *update.StartDate
	}
	end := event.EndDate
	if update.EndDate != nil {
		end = *update.EndDate
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: the end date must be after the start date", e.ErrInvalidInput)
	}
	if update.Attendees != nil && *update.Attendees < 0 {
		return nil, fmt.Errorf("%w: attendees cannot be negative", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateEvent(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.reporter.CaptureError(err, "update_event")
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	updated, err := s.repo.GetEvent(ctx, update.ID)
	if err != nil {
		s.reporter.CaptureError(err, "update_event")
		return nil, fmt.Errorf("failed to reload event: %w", err)
	}
	return updated, nil
}

// Delete removes an event. Management only.
func (s *EventService) Delete(ctx context.Context, actor *models.Collaborator, id uint) error {
	if actor == nil {
		return fmt.Errorf("%w: no authenticated collaborator", e.ErrPermissionDenied)
	}
	if actor.Role != models.RoleManagement {
		return s.gate.Deny(actor, access.DeleteEvent,
			fmt.Sprintf("event deletion is reserved to management, role is %s", actor.Role))
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.reporter.CaptureError(err, "delete_event")
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Info("event deleted", zap.Uint("id", id))
	return nil
}
