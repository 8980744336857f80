package db

import (
	"context"
	"errors"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateEvent(ctx context.Context, event *models.Event) error {
	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	result := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("SupportContact").
		First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &event, nil
}

func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	result := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("SupportContact").
		Order("id").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

func (r *Repository) ListEventsBySupportContact(ctx context.Context, collaboratorID uint) ([]models.Event, error) {
	var events []models.Event
	result := r.db.WithContext(ctx).
		Preload("Contract").
		Preload("SupportContact").
		Where("support_contact_id = ?", collaboratorID).
		Order("id").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

func (r *Repository) ListEventsWithoutSupport(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	result := r.db.WithContext(ctx).
		Preload("Contract").
		Where("support_contact_id IS NULL").
		Order("id").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

func (r *Repository) UpdateEvent(ctx context.Context, update *models.EventUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteEvent(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
