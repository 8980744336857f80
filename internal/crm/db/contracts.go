package db

import (
	"context"
	"errors"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateContract(ctx context.Context, contract *models.Contract) error {
	result := r.db.WithContext(ctx).Create(contract)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) GetContract(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	result := r.db.WithContext(ctx).
		Preload("Client").
		Preload("SalesContact").
		First(&contract, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &contract, nil
}

func (r *Repository) ListContracts(ctx context.Context, filter models.ContractFilter) ([]models.Contract, error) {
	var contracts []models.Contract
	query := applyContractFilter(r.db.WithContext(ctx), filter).
		Preload("Client").
		Preload("SalesContact").
		Order("contracts.id")
	result := query.Find(&contracts)
	if result.Error != nil {
		return nil, result.Error
	}
	return contracts, nil
}

// ListContractsBySalesContact returns the contracts of clients
// attributed to the given sales collaborator, optionally narrowed by
// filter.
func (r *Repository) ListContractsBySalesContact(ctx context.Context, collaboratorID uint, filter models.ContractFilter) ([]models.Contract, error) {
	var contracts []models.Contract
	query := applyContractFilter(r.db.WithContext(ctx), filter).
		Joins("JOIN clients ON clients.id = contracts.client_id").
		Where("clients.sales_contact_id = ?", collaboratorID).
		Preload("Client").
		Preload("SalesContact").
		Order("contracts.id")
	result := query.Find(&contracts)
	if result.Error != nil {
		return nil, result.Error
	}
	return contracts, nil
}

func applyContractFilter(tx *gorm.DB, filter models.ContractFilter) *gorm.DB {
	switch filter {
	case models.ContractFilterSigned:
		return tx.Where("contracts.status = ?", models.ContractSigned)
	case models.ContractFilterNotSigned:
		return tx.Where("contracts.status = ?", models.ContractNotSigned)
	case models.ContractFilterUnpaid:
		return tx.Where("contracts.amount_remaining > 0")
	default:
		return tx
	}
}

func (r *Repository) UpdateContract(ctx context.Context, update *models.ContractUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Contract{}).
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

func (r *Repository) DeleteContract(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Contract{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
