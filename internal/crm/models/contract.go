package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus represents the signature state of a contract.
type ContractStatus string

const (
	// ContractSigned marks a contract whose client has signed.
	ContractSigned ContractStatus = "signed"
	// ContractNotSigned is the default state of a new contract.
	ContractNotSigned ContractStatus = "not_signed"
)

// Valid reports whether s is a known contract status.
func (s ContractStatus) Valid() bool {
	return s == ContractSigned || s == ContractNotSigned
}

// ContractFilter narrows contract listings.
type ContractFilter string

const (
	// ContractFilterAll lists every contract in scope.
	ContractFilterAll ContractFilter = "all"
	// ContractFilterSigned lists signed contracts only.
	ContractFilterSigned ContractFilter = "signed"
	// ContractFilterNotSigned lists unsigned contracts only.
	ContractFilterNotSigned ContractFilter = "not_signed"
	// ContractFilterUnpaid lists contracts with an amount remaining.
	ContractFilterUnpaid ContractFilter = "no_fully_paid"
)

// Contract defines the domain model for a financial agreement between
// a client and the company.
type Contract struct {
	// ID is the unique identifier for the contract.
	ID uint `gorm:"primaryKey"`
	// ClientID references the client the contract belongs to.
	ClientID uint
	// Client is the client the contract belongs to.
	Client Client `gorm:"constraint:OnDelete:CASCADE"`
	// SalesContactID references the sales collaborator responsible for
	// the contract. Inherited from the client at creation time.
	SalesContactID *uint
	// SalesContact is the responsible sales collaborator.
	SalesContact *Collaborator `gorm:"constraint:OnDelete:SET NULL"`
	// TotalAmount is the full contract value.
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)"`
	// AmountRemaining is the value still unpaid.
	AmountRemaining decimal.Decimal `gorm:"type:decimal(10,2)"`
	// Status is the signature state, signed or not_signed.
	Status ContractStatus `gorm:"size:25;default:not_signed"`
	// CreatedAt records when the contract was created.
	CreatedAt time.Time
	// UpdatedAt records when the contract was last modified.
	UpdatedAt time.Time
}

// Signed reports whether the contract has been signed.
func (c *Contract) Signed() bool {
	return c.Status == ContractSigned
}

// ContractUpdate represents the fields that can be updated for a
// Contract. Pointer types are used to allow partial updates.
type ContractUpdate struct {
	// ID is the unique identifier of the contract to update.
	ID uint
	// SalesContactID is the new responsible sales collaborator.
	SalesContactID *uint
	// TotalAmount is the new full contract value.
	TotalAmount *decimal.Decimal
	// AmountRemaining is the new unpaid value.
	AmountRemaining *decimal.Decimal
	// Status is the new signature state.
	Status *ContractStatus
}

// Empty reports whether the update carries no fields.
func (u *ContractUpdate) Empty() bool {
	return u.SalesContactID == nil && u.TotalAmount == nil &&
		u.AmountRemaining == nil && u.Status == nil
}
