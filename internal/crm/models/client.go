package models

import "time"

// Client defines the domain model for a client record. Every client is
// attributed to the sales collaborator who brought them in.
type Client struct {
	// ID is the unique identifier for the client.
	ID uint `gorm:"primaryKey"`
	// FullName is the client's contact name.
	FullName string `gorm:"size:100"`
	// Email is the client's email address, unique across clients.
	Email string `gorm:"size:254;uniqueIndex"`
	// Phone is the client's phone number.
	Phone string `gorm:"size:20"`
	// CompanyName is the name of the client's company.
	CompanyName string `gorm:"size:100"`
	// SalesContactID references the sales collaborator attributed to
	// the client. Nullable so the record survives account removal.
	SalesContactID *uint
	// SalesContact is the attributed sales collaborator.
	SalesContact *Collaborator `gorm:"constraint:OnDelete:SET NULL"`
	// CreatedAt records when the client was added.
	CreatedAt time.Time
	// UpdatedAt records when the client was last modified.
	UpdatedAt time.Time
}

// ClientUpdate represents the fields that can be updated for a Client.
// Pointer types are used to allow partial updates.
type ClientUpdate struct {
	// ID is the unique identifier of the client to update.
	ID uint
	// FullName is the new contact name.
	FullName *string
	// Email is the new email address.
	Email *string
	// Phone is the new phone number.
	Phone *string
	// CompanyName is the new company name.
	CompanyName *string
	// SalesContactID is the new attributed sales collaborator.
	SalesContactID *uint
}

// Empty reports whether the update carries no fields.
func (u *ClientUpdate) Empty() bool {
	return u.FullName == nil && u.Email == nil && u.Phone == nil &&
		u.CompanyName == nil && u.SalesContactID == nil
}
