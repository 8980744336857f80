package db

import (
	"context"
	"errors"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateCollaborator(ctx context.Context, collaborator *models.Collaborator) error {
	result := r.db.WithContext(ctx).Create(collaborator)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateUsername
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCollaborator(ctx context.Context, id uint) (*models.Collaborator, error) {
	var collaborator models.Collaborator
	result := r.db.WithContext(ctx).First(&collaborator, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &collaborator, nil
}

func (r *Repository) GetCollaboratorByUsername(ctx context.Context, username string) (*models.Collaborator, error) {
	var collaborator models.Collaborator
	result := r.db.WithContext(ctx).First(&collaborator, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &collaborator, nil
}

func (r *Repository) ListCollaborators(ctx context.Context) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	result := r.db.WithContext(ctx).Order("id").Find(&collaborators)
	if result.Error != nil {
		return nil, result.Error
	}
	return collaborators, nil
}

func (r *Repository) ListCollaboratorsByRole(ctx context.Context, role models.Role) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	result := r.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&collaborators)
	if result.Error != nil {
		return nil, result.Error
	}
	return collaborators, nil
}

func (r *Repository) UpdateCollaborator(ctx context.Context, update *models.CollaboratorUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Collaborator{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateUsername
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteCollaborator removes the account via the ORM's soft delete, so
// past clients and events keep a resolvable contact reference.
func (r *Repository) DeleteCollaborator(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Collaborator{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CollaboratorUsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Collaborator{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CollaboratorEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Collaborator{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CollaboratorEmployeeNumberTaken(ctx context.Context, employeeNumber string, excludeID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Collaborator{}).
		Where("employee_number = ? AND id <> ?", employeeNumber, excludeID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}
