package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
)

// OptionalDate distinguishes an absent JSON field from an explicit null.
type OptionalDate struct {
	Set   bool
	Valid bool
	Time  time.Time
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(data, []byte("null")) {
		d.Valid = false
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Valid = false
		return nil
	}
	t, err := contract.ParseDate(s)
	if err != nil {
		return err
	}
	d.Valid = true
	d.Time = t
	return nil
}

// contractFields are the duration keys shared by company and employee bodies.
type contractFields struct {
	ContractLength       *int `json:"contractLength"`
	ContractLengthYears  *int `json:"contractLengthYears"`
	ContractLengthMonths *int `json:"contractLengthMonths"`
}

func (c contractFields) toInput() models.ContractInput {
	return models.ContractInput{
		Length: c.ContractLength,
		Years:  c.ContractLengthYears,
		Months: c.ContractLengthMonths,
	}
}

// CompanyRequest is the body of POST and PUT /companies. employeeCount is not
// accepted; it is maintained by the server.
type CompanyRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	contractFields
}

func (r *CompanyRequest) toInput(id uuid.UUID) *models.CompanyInput {
	return &models.CompanyInput{
		ID:          id,
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
		Contract:    r.contractFields.toInput(),
	}
}

// EmployeeRequest is the body of POST and PUT /employees. The legacy name and
// surname keys are accepted when firstName and lastName are absent.
type EmployeeRequest struct {
	FirstName  *string      `json:"firstName"`
	LastName   *string      `json:"lastName"`
	Name       *string      `json:"name"`
	Surname    *string      `json:"surname"`
	Position   *string      `json:"position"`
	Company    *string      `json:"company"`
	CompanyID  *string      `json:"companyId"`
	StartDate  OptionalDate `json:"startDate"`
	ReviewDate OptionalDate `json:"reviewDate"`
	contractFields
}

func (r *EmployeeRequest) toInput(id uuid.UUID) (*models.EmployeeInput, error) {
	in := &models.EmployeeInput{
		ID:        id,
		FirstName: firstNonNil(r.FirstName, r.Name),
		LastName:  firstNonNil(r.LastName, r.Surname),
		Position:  r.Position,
		Contract:  r.contractFields.toInput(),
	}

	if ref := firstNonNil(r.Company, r.CompanyID); ref != nil {
		companyID, err := uuid.Parse(*ref)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
		}
		in.CompanyID = &companyID
	}

	if r.StartDate.Valid {
		in.StartDate = &r.StartDate.Time
	}

	if r.ReviewDate.Set {
		if r.ReviewDate.Valid {
			in.ReviewDate = &r.ReviewDate.Time
		} else {
			in.ClearReviewDate = true
		}
	}
	return in, nil
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
