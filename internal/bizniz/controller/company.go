package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gartstein/bizniz/internal/bizniz/db"
	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/gartstein/bizniz/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService provides methods to manage companies via repository
// operations, cache maintenance and event production.
type CompanyService struct {
	repo     Repository
	cache    CompanyCache
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyService(repo Repository, cache CompanyCache, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany retrieves a Company by ID, consulting the cache first.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if company, ok := s.cache.Get(ctx, id); ok {
		return company, nil
	}

	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	s.cache.Set(ctx, company)
	return company, nil
}

// CreateCompany validates the input, applies the contract defaults and stores
// a new company with an employee count of zero.
func (s *CompanyService) CreateCompany(ctx context.Context, in *models.CompanyInput) (*models.Company, error) {
	company := &models.Company{
		Name:        utils.Deref(in.Name, ""),
		Location:    utils.Deref(in.Location, ""),
		Description: strings.TrimSpace(utils.Deref(in.Description, "")),
	}
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	length, err := createContractLength(in.Contract)
	if err != nil {
		return nil, err
	}
	company.ContractLength = length
	company.ID = uuid.New()

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	s.producer.Produce(events.NewCompanyEvent(events.CompanyCreated, company))
	return company, nil
}

// UpdateCompany merges the supplied fields into the stored company. Supplying
// either contractLengthYears or contractLengthMonths re-normalizes the total.
func (s *CompanyService) UpdateCompany(ctx context.Context, in *models.CompanyInput) (*models.Company, error) {
	if in.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}

	current, err := s.repo.GetCompany(ctx, in.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	if in.Name != nil {
		current.Name = *in.Name
	}
	if in.Location != nil {
		current.Location = *in.Location
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if err := validateCompany(current); err != nil {
		return nil, err
	}
	if current.ContractLength, err = resolveContractLength(in.Contract, current.ContractLength); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCompany(ctx, current); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	s.cache.Invalidate(ctx, in.ID)

	updated, err := s.repo.GetCompany(ctx, in.ID)
	if err != nil {
		s.logger.Error("Failed to get company for event",
			zap.Error(err),
			zap.String("company_id", in.ID.String()),
		)
		return nil, err
	}
	s.producer.Produce(events.NewCompanyEvent(events.CompanyUpdated, updated))
	return updated, nil
}

// DeleteCompany removes a company that no employee references. Both the
// maintained count and a live count must be zero.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	var deleted *models.Company
	err := s.repo.WithTransaction(ctx, func(tx db.Tx) error {
		company, err := tx.GetCompany(ctx, id)
		if err != nil {
			return err
		}

		live, err := tx.CountEmployees(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		if n := max(company.EmployeeCount, live); n > 0 {
			return fmt.Errorf("%w: cannot delete company with %d existing employee(s), reassign or delete them first",
				e.ErrConflict, n)
		}

		if err := tx.DeleteCompany(ctx, id); err != nil {
			return err
		}
		deleted = company
		return nil
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("company deleted", zap.String("company_id", id.String()))
	s.producer.Produce(events.NewCompanyEvent(events.CompanyDeleted, deleted))
	return nil
}

func validateCompany(c *models.Company) error {
	var err error
	if c.Name, err = required("name", c.Name); err != nil {
		return err
	}
	if c.Location, err = required("location", c.Location); err != nil {
		return err
	}
	if len(c.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description too long", e.ErrInvalidInput)
	}
	return nil
}
