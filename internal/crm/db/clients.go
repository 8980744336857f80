package db

import (
	"context"
	"errors"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateClient(ctx context.Context, client *models.Client) error {
	result := r.db.WithContext(ctx).Create(client)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	result := r.db.WithContext(ctx).Preload("SalesContact").First(&client, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &client, nil
}

func (r *Repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	result := r.db.WithContext(ctx).Preload("SalesContact").Order("id").Find(&clients)
	if result.Error != nil {
		return nil, result.Error
	}
	return clients, nil
}

func (r *Repository) ListClientsBySalesContact(ctx context.Context, collaboratorID uint) ([]models.Client, error) {
	var clients []models.Client
	result := r.db.WithContext(ctx).Preload("SalesContact").
		Where("sales_contact_id = ?", collaboratorID).
		Order("id").
		Find(&clients)
	if result.Error != nil {
		return nil, result.Error
	}
	return clients, nil
}

func (r *Repository) UpdateClient(ctx context.Context, update *models.ClientUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteClient(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ClientEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}
