package db

import (
	dbmodels "github.com/gartstein/bizniz/internal/bizniz/db/models"
	"github.com/gartstein/bizniz/internal/bizniz/models"
)

func companyToRow(c *models.Company) *dbmodels.Company {
	return &dbmodels.Company{
		ID:             c.ID,
		Name:           c.Name,
		Location:       c.Location,
		Description:    c.Description,
		ContractLength: c.ContractLength,
		EmployeeCount:  c.EmployeeCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func companyFromRow(row *dbmodels.Company) *models.Company {
	return &models.Company{
		ID:             row.ID,
		Name:           row.Name,
		Location:       row.Location,
		Description:    row.Description,
		ContractLength: row.ContractLength,
		EmployeeCount:  row.EmployeeCount,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func employeeToRow(e *models.Employee) *dbmodels.Employee {
	return &dbmodels.Employee{
		ID:             e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		CompanyID:      e.CompanyID,
		ContractLength: e.ContractLength,
		StartDate:      e.StartDate,
		ReviewDate:     e.ReviewDate,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func employeeFromRow(row *dbmodels.Employee) *models.Employee {
	e := &models.Employee{
		ID:             row.ID,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Position:       row.Position,
		CompanyID:      row.CompanyID,
		ContractLength: row.ContractLength,
		StartDate:      row.StartDate.UTC(),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.ReviewDate != nil {
		review := row.ReviewDate.UTC()
		e.ReviewDate = &review
	}
	if row.Company != nil {
		e.Company = &models.CompanyRef{
			ID:       row.Company.ID,
			Name:     row.Company.Name,
			Location: row.Company.Location,
		}
	}
	return e
}
