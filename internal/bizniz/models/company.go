// Package models defines the core domain models for companies and employees.
package models

import (
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	"github.com/google/uuid"
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID
	// Name is the company's name.
	Name string
	// Location is where the company is based.
	Location string
	// Description provides details about the company.
	Description string
	// ContractLength is the contract duration in months.
	ContractLength int
	// EmployeeCount is the maintained number of employees referencing this company.
	EmployeeCount int
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time
}

// Contract returns the contract length split into years and months.
func (c *Company) Contract() contract.Duration {
	return contract.FromTotal(c.ContractLength)
}

// ContractInput carries the duration fields of a write request. A nil field
// was not supplied by the caller.
type ContractInput struct {
	// Length is a flat duration in months.
	Length *int
	// Years and Months override the matching part of the current duration;
	// either one being set re-normalizes the total and wins over Length.
	Years  *int
	Months *int
}

// Empty reports whether no duration field was supplied.
func (c ContractInput) Empty() bool {
	return c.Length == nil && c.Years == nil && c.Months == nil
}

// CompanyInput represents the fields supplied for a company create or update.
// Pointer types are used to allow partial updates.
type CompanyInput struct {
	// ID is the unique identifier for the company to update. Ignored on create.
	ID uuid.UUID
	// Name is the new name for the company.
	Name *string
	// Location is the new location.
	Location *string
	// Description is the new description.
	Description *string
	Contract    ContractInput
}

// CompanyRef is the slice of a company embedded in employee reads.
type CompanyRef struct {
	ID       uuid.UUID
	Name     string
	Location string
}

// Reconciliation reports the outcome of recomputing a company's employee count.
type Reconciliation struct {
	CompanyID uuid.UUID
	Previous  int
	Current   int
}

// Changed reports whether the stored count had drifted.
func (r Reconciliation) Changed() bool {
	return r.Previous != r.Current
}
