// Package models defines the core domain models for the CRM entities:
// Collaborator, Client, Contract and Event. Each entity has a matching
// pointer-field update struct used for partial updates.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents the team a collaborator belongs to. The role decides
// which operations the authorization gate allows.
type Role string

const (
	// RoleManagement administers collaborators and contracts.
	RoleManagement Role = "management"
	// RoleSales owns clients and creates events for signed contracts.
	RoleSales Role = "sales"
	// RoleSupport runs the events assigned to them.
	RoleSupport Role = "support"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleManagement, RoleSales, RoleSupport:
		return true
	}
	return false
}

// Collaborator defines the domain model for an employee account.
type Collaborator struct {
	// ID is the unique identifier for the collaborator.
	ID uint `gorm:"primaryKey"`
	// FirstName is the collaborator's given name.
	FirstName string `gorm:"size:50"`
	// LastName is the collaborator's family name.
	LastName string `gorm:"size:50"`
	// Username is the login name, unique across accounts.
	Username string `gorm:"size:50;uniqueIndex"`
	// Email is the work email address, unique across accounts.
	Email string `gorm:"size:254;uniqueIndex"`
	// EmployeeNumber is the HR identifier, unique across accounts.
	EmployeeNumber string `gorm:"size:50;uniqueIndex"`
	// PasswordHash holds the bcrypt hash of the password.
	PasswordHash string `gorm:"size:100"`
	// Role is the team the collaborator belongs to.
	Role Role `gorm:"size:10"`
	// CreatedAt records when the account was created.
	CreatedAt time.Time
	// UpdatedAt records when the account was last modified.
	UpdatedAt time.Time
	// DeletedAt marks the account as removed without dropping the row.
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FullName returns the display name used by the terminal views.
func (c *Collaborator) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Username
	}
	return name
}

// CollaboratorUpdate represents the fields that can be updated for a
// Collaborator. Pointer types are used to allow partial updates.
type CollaboratorUpdate struct {
	// ID is the unique identifier of the collaborator to update.
	ID uint
	// FirstName is the new given name.
	FirstName *string
	// LastName is the new family name.
	LastName *string
	// Username is the new login name.
	Username *string
	// Email is the new email address.
	Email *string
	// EmployeeNumber is the new HR identifier.
	EmployeeNumber *string
	// PasswordHash is the new bcrypt password hash.
	PasswordHash *string
	// Role is the new team assignment.
	Role *Role
}

// Empty reports whether the update carries no fields.
func (u *CollaboratorUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Username == nil &&
		u.Email == nil && u.EmployeeNumber == nil && u.PasswordHash == nil && u.Role == nil
}
