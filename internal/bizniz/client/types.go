package client

import (
	"encoding/json"
	"time"
)

type Company struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Location             string    `json:"location"`
	Description          string    `json:"description"`
	ContractLength       int       `json:"contractLength"`
	ContractLengthYears  int       `json:"contractLengthYears"`
	ContractLengthMonths int       `json:"contractLengthMonths"`
	ContractLengthLabel  string    `json:"contractLengthLabel"`
	EmployeeCount        int       `json:"employeeCount"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type CompanyRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type Employee struct {
	ID                   string      `json:"id"`
	FirstName            string      `json:"firstName"`
	LastName             string      `json:"lastName"`
	Position             string      `json:"position"`
	CompanyID            string      `json:"companyId"`
	Company              *CompanyRef `json:"company"`
	ContractLength       int         `json:"contractLength"`
	ContractLengthYears  int         `json:"contractLengthYears"`
	ContractLengthMonths int         `json:"contractLengthMonths"`
	ContractLengthLabel  string      `json:"contractLengthLabel"`
	StartDate            string      `json:"startDate"`
	ContractEndDate      string      `json:"contractEndDate"`
	ReviewDate           *string     `json:"reviewDate"`
	EffectiveReviewDate  string      `json:"effectiveReviewDate"`
	ReviewDateOverridden bool        `json:"reviewDateOverridden"`
}

type Reconciliation struct {
	CompanyID string `json:"companyId"`
	Previous  int    `json:"previous"`
	Current   int    `json:"current"`
	Changed   bool   `json:"changed"`
}

// CompanyPayload is a create or update body; nil fields are omitted.
type CompanyPayload struct {
	Name           *string `json:"name,omitempty"`
	Location       *string `json:"location,omitempty"`
	Description    *string `json:"description,omitempty"`
	ContractLength *int    `json:"contractLength,omitempty"`
}

// EmployeePayload is a create or update body; nil fields are omitted.
// ClearReviewDate sends an explicit null reviewDate.
type EmployeePayload struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Position        *string `json:"position,omitempty"`
	Company         *string `json:"company,omitempty"`
	ContractLength  *int    `json:"contractLength,omitempty"`
	StartDate       *string `json:"startDate,omitempty"`
	ReviewDate      *string `json:"-"`
	ClearReviewDate bool    `json:"-"`
}

func (p EmployeePayload) MarshalJSON() ([]byte, error) {
	type plain EmployeePayload
	fields := map[string]any{}

	data, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	switch {
	case p.ClearReviewDate:
		fields["reviewDate"] = nil
	case p.ReviewDate != nil:
		fields["reviewDate"] = *p.ReviewDate
	}
	return json.Marshal(fields)
}
