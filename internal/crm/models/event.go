package models

import "time"

// Event defines the domain model for a scheduled occasion backed by a
// signed contract. Support contact stays unset until management
// assigns one.
type Event struct {
	// ID is the unique identifier for the event.
	ID uint `gorm:"primaryKey"`
	// ContractID references the signed contract behind the event.
	ContractID uint
	// Contract is the signed contract behind the event.
	Contract Contract `gorm:"constraint:OnDelete:CASCADE"`
	// Name is the event's title.
	Name string `gorm:"size:100"`
	// ClientName is the client's name, denormalized for display.
	ClientName string `gorm:"size:100"`
	// ClientContact holds free-form contact details for the client.
	ClientContact string
	// StartDate is when the event begins.
	StartDate time.Time
	// EndDate is when the event ends.
	EndDate time.Time
	// SupportContactID references the support collaborator running the
	// event, if one has been assigned.
	SupportContactID *uint
	// SupportContact is the assigned support collaborator.
	SupportContact *Collaborator `gorm:"constraint:OnDelete:SET NULL"`
	// Location is where the event takes place.
	Location string `gorm:"size:300"`
	// Attendees is the expected number of guests.
	Attendees int `gorm:"check:attendees >= 0"`
	// Notes holds free-form remarks about the event.
	Notes string
	// CreatedAt records when the event was created.
	CreatedAt time.Time
	// UpdatedAt records when the event was last modified.
	UpdatedAt time.Time
}

// EventUpdate represents the fields that can be updated for an Event.
// Pointer types are used to allow partial updates.
type EventUpdate struct {
	// ID is the unique identifier of the event to update.
	ID uint
	// Name is the new title.
	Name *string
	// ClientName is the new denormalized client name.
	ClientName *string
	// ClientContact is the new client contact details.
	ClientContact *string
	// StartDate is the new start time.
	StartDate *time.Time
	// EndDate is the new end time.
	EndDate *time.Time
	// SupportContactID is the new assigned support collaborator.
	SupportContactID *uint
	// Location is the new venue.
	Location *string
	// Attendees is the new expected guest count.
	Attendees *int
	// Notes is the new free-form remarks.
	Notes *string
}

// Empty reports whether the update carries no fields.
func (u *EventUpdate) Empty() bool {
	return u.Name == nil && u.ClientName == nil && u.ClientContact == nil &&
		u.StartDate == nil && u.EndDate == nil && u.SupportContactID == nil &&
		u.Location == nil && u.Attendees == nil && u.Notes == nil
}
