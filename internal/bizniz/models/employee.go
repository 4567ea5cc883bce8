package models

import (
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	"github.com/google/uuid"
)

// Employee defines the domain model for an employee. The company is a
// non-owning reference resolved by id.
type Employee struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Position  string
	CompanyID uuid.UUID
	// Company is populated on reads with the referenced company's name and location.
	Company        *CompanyRef
	ContractLength int
	StartDate      time.Time
	// ReviewDate is the explicit review override; nil means the review date is derived.
	ReviewDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contract returns the contract length split into years and months.
func (e *Employee) Contract() contract.Duration {
	return contract.FromTotal(e.ContractLength)
}

// ContractEndDate is the start date plus the contract length.
func (e *Employee) ContractEndDate() time.Time {
	return contract.EndDate(e.StartDate, e.ContractLength)
}

// ReviewDateOverridden reports whether an explicit review date is stored.
func (e *Employee) ReviewDateOverridden() bool {
	return e.ReviewDate != nil
}

// EffectiveReviewDate returns the override when set, otherwise the derived default.
func (e *Employee) EffectiveReviewDate() time.Time {
	if e.ReviewDate != nil {
		return *e.ReviewDate
	}
	return contract.ReviewDate(e.StartDate, e.ContractLength)
}

// EmployeeInput carries the fields supplied for an employee create or update.
type EmployeeInput struct {
	// ID selects the employee to update. Ignored on create.
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Position  *string
	CompanyID *uuid.UUID
	Contract  ContractInput
	StartDate *time.Time
	// ReviewDate sets the override; ClearReviewDate drops it and reverts to derivation.
	ReviewDate      *time.Time
	ClearReviewDate bool
}
