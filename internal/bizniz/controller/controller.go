// Package controller implements the business logic (service layer) for
// companies and employees: input validation, contract-duration normalization,
// employee count maintenance and the events and cache invalidations that
// follow every write.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	"github.com/gartstein/bizniz/internal/bizniz/db"
	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
)

const (
	maxContractYears     = contract.MaxLengthMonths / contract.MonthsPerYear
	maxDescriptionLength = 3000
)

type EventProducer interface {
	Produce(event events.Event)
}

// CompanyCache is a read-through cache of companies by id.
type CompanyCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Company, bool)
	Set(ctx context.Context, company *models.Company)
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}

// Repository defines the storage interface used by the services.
type Repository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	WithTransaction(ctx context.Context, fn func(tx db.Tx) error) error
}

// resolveContractLength turns the supplied duration fields into a month total.
// Years/months win over a flat length; a missing years or months part is taken
// from current.
func resolveContractLength(in models.ContractInput, current int) (int, error) {
	if in.Years != nil || in.Months != nil {
		cur := contract.FromTotal(current)
		years, months := cur.Years, cur.Months
		if in.Years != nil {
			if *in.Years < 0 || *in.Years > maxContractYears {
				return 0, fmt.Errorf("%w: contractLengthYears must be between 0 and %d", e.ErrInvalidInput, maxContractYears)
			}
			years = *in.Years
		}
		if in.Months != nil {
			if *in.Months < 0 || *in.Months > contract.MaxLengthMonths {
				return 0, fmt.Errorf("%w: contractLengthMonths must be between 0 and %d", e.ErrInvalidInput, contract.MaxLengthMonths)
			}
			months = *in.Months
		}
		total := contract.ToTotalMonths(years, months)
		if total > contract.MaxLengthMonths {
			return 0, fmt.Errorf("%w: contract length cannot exceed %d months", e.ErrInvalidInput, contract.MaxLengthMonths)
		}
		return total, nil
	}

	if in.Length != nil {
		if *in.Length < 0 || *in.Length > contract.MaxLengthMonths {
			return 0, fmt.Errorf("%w: contractLength must be between 0 and %d", e.ErrInvalidInput, contract.MaxLengthMonths)
		}
		return *in.Length, nil
	}
	return current, nil
}

// createContractLength resolves the duration of a new record: the default when
// nothing was supplied, otherwise the supplied parts with zero for the rest.
func createContractLength(in models.ContractInput) (int, error) {
	if in.Empty() {
		return contract.DefaultLengthMonths, nil
	}
	return resolveContractLength(in, 0)
}

// required trims v and fails when nothing is left.
func required(field string, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", e.ErrInvalidInput, field)
	}
	return v, nil
}
