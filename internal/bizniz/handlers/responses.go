package handlers

import (
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	"github.com/gartstein/bizniz/internal/bizniz/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

type CompanyResponse struct {
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

type CompanyRefResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type EmployeeResponse struct {
	ID                   string              `json:"id"`
	FirstName            string              `json:"firstName"`
	LastName             string              `json:"lastName"`
	Position             string              `json:"position"`
	CompanyID            string              `json:"companyId"`
	Company              *CompanyRefResponse `json:"company"`
	ContractLength       int                 `json:"contractLength"`
	ContractLengthYears  int                 `json:"contractLengthYears"`
	ContractLengthMonths int                 `json:"contractLengthMonths"`
	ContractLengthLabel  string              `json:"contractLengthLabel"`
	StartDate            string              `json:"startDate"`
	ContractEndDate      string              `json:"contractEndDate"`
	ReviewDate           *string             `json:"reviewDate"`
	EffectiveReviewDate  string              `json:"effectiveReviewDate"`
	ReviewDateOverridden bool                `json:"reviewDateOverridden"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

type ReconciliationResponse struct {
	CompanyID string `json:"companyId"`
	Previous  int    `json:"previous"`
	Current   int    `json:"current"`
	Changed   bool   `json:"changed"`
}

type ReconcileAllResponse struct {
	Corrected []ReconciliationResponse `json:"corrected"`
}

func toCompanyResponse(c *models.Company) CompanyResponse {
	d := c.Contract()
	return CompanyResponse{
		ID:                   c.ID.String(),
		Name:                 c.Name,
		Location:             c.Location,
		Description:          c.Description,
		ContractLength:       c.ContractLength,
		ContractLengthYears:  d.Years,
		ContractLengthMonths: d.Months,
		ContractLengthLabel:  contract.FormatLength(c.ContractLength),
		EmployeeCount:        c.EmployeeCount,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func toCompanyResponses(companies []models.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, toCompanyResponse(&companies[i]))
	}
	return out
}

func formatDay(t time.Time) string {
	return t.Format(contract.DateLayout)
}

func toEmployeeResponse(emp *models.Employee) EmployeeResponse {
	d := emp.Contract()
	resp := EmployeeResponse{
		ID:                   emp.ID.String(),
		FirstName:            emp.FirstName,
		LastName:             emp.LastName,
		Position:             emp.Position,
		CompanyID:            emp.CompanyID.String(),
		ContractLength:       emp.ContractLength,
		ContractLengthYears:  d.Years,
		ContractLengthMonths: d.Months,
		ContractLengthLabel:  contract.FormatLength(emp.ContractLength),
		StartDate:            formatDay(emp.StartDate),
		ContractEndDate:      formatDay(emp.ContractEndDate()),
		EffectiveReviewDate:  formatDay(emp.EffectiveReviewDate()),
		ReviewDateOverridden: emp.ReviewDateOverridden(),
		CreatedAt:            emp.CreatedAt,
		UpdatedAt:            emp.UpdatedAt,
	}
	if emp.ReviewDate != nil {
		day := formatDay(*emp.ReviewDate)
		resp.ReviewDate = &day
	}
	if emp.Company != nil {
		resp.Company = &CompanyRefResponse{
			ID:       emp.Company.ID.String(),
			Name:     emp.Company.Name,
			Location: emp.Company.Location,
		}
	}
	return resp
}

func toEmployeeResponses(employees []models.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, toEmployeeResponse(&employees[i]))
	}
	return out
}

func toReconciliationResponse(r models.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		CompanyID: r.CompanyID.String(),
		Previous:  r.Previous,
		Current:   r.Current,
		Changed:   r.Changed(),
	}
}
