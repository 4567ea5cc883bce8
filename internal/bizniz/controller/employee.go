package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	"github.com/gartstein/bizniz/internal/bizniz/db"
	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/gartstein/bizniz/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService manages employees. Every write runs in one transaction
// together with the employee count adjustments it implies.
type EmployeeService struct {
	repo     Repository
	cache    CompanyCache
	producer EventProducer
	logger   *zap.Logger
	now      func() time.Time
}

func NewEmployeeService(repo Repository, cache CompanyCache, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger.Named("employee_service"),
		now:      time.Now,
	}
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// ListEmployeesByCompany returns the employees of one company; an unknown
// company is reported as not found rather than as an empty list.
func (s *EmployeeService) ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	employees, err := s.repo.ListEmployeesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// CreateEmployee stores a new employee and increments the referenced company's
// count. An unknown company fails the whole operation.
func (s *EmployeeService) CreateEmployee(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error) {
	if in.CompanyID == nil || *in.CompanyID == uuid.Nil {
		return nil, fmt.Errorf("%w: company is required", e.ErrInvalidInput)
	}

	employee := &models.Employee{
		ID:        uuid.New(),
		FirstName: utils.Deref(in.FirstName, ""),
		LastName:  utils.Deref(in.LastName, ""),
		Position:  utils.Deref(in.Position, ""),
		CompanyID: *in.CompanyID,
		StartDate: contract.Date(utils.Deref(in.StartDate, s.now())),
	}
	if !in.ClearReviewDate && in.ReviewDate != nil {
		employee.ReviewDate = utils.Ptr(contract.Date(*in.ReviewDate))
	}

	length, err := createContractLength(in.Contract)
	if err != nil {
		return nil, err
	}
	employee.ContractLength = length

	if err := validateEmployee(employee); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx db.Tx) error {
		if _, err := tx.GetCompany(ctx, employee.CompanyID); err != nil {
			return err
		}
		if err := tx.CreateEmployee(ctx, employee); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		if err := tx.AdjustEmployeeCount(ctx, employee.CompanyID, 1); err != nil {
			return fmt.Errorf("failed to increment employee count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.logWriteError(err)
	}

	s.cache.Invalidate(ctx, employee.CompanyID)
	created := s.reload(ctx, employee)
	s.producer.Produce(events.NewEmployeeEvent(events.EmployeeCreated, created, nil))
	return created, nil
}

// UpdateEmployee merges the supplied fields into the stored employee. Moving
// the employee to another company decrements the old count and increments the
// new one in the same transaction.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error) {
	if in.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrInvalidInput)
	}

	var (
		employee      *models.Employee
		prevCompanyID uuid.UUID
	)
	err := s.repo.WithTransaction(ctx, func(tx db.Tx) error {
		current, err := tx.GetEmployee(ctx, in.ID)
		if err != nil {
			return err
		}
		prevCompanyID = current.CompanyID

		if err := mergeEmployee(current, in); err != nil {
			return err
		}
		if err := validateEmployee(current); err != nil {
			return err
		}

		moved := current.CompanyID != prevCompanyID
		if moved {
			if _, err := tx.GetCompany(ctx, current.CompanyID); err != nil {
				return err
			}
		}

		if err := tx.UpdateEmployee(ctx, current); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}

		if moved {
			if err := tx.AdjustEmployeeCount(ctx, prevCompanyID, -1); err != nil {
				return fmt.Errorf("failed to decrement employee count: %w", err)
			}
			if err := tx.AdjustEmployeeCount(ctx, current.CompanyID, 1); err != nil {
				return fmt.Errorf("failed to increment employee count: %w", err)
			}
		}
		employee = current
		return nil
	})
	if err != nil {
		return nil, s.logWriteError(err)
	}

	var previous *uuid.UUID
	if prevCompanyID != employee.CompanyID {
		previous = utils.Ptr(prevCompanyID)
		s.cache.Invalidate(ctx, prevCompanyID, employee.CompanyID)
	} else {
		s.cache.Invalidate(ctx, employee.CompanyID)
	}

	updated := s.reload(ctx, employee)
	s.producer.Produce(events.NewEmployeeEvent(events.EmployeeUpdated, updated, previous))
	return updated, nil
}

// DeleteEmployee removes the employee and decrements its company's count.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	var deleted *models.Employee
	err := s.repo.WithTransaction(ctx, func(tx db.Tx) error {
		employee, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteEmployee(ctx, id); err != nil {
			return err
		}
		if err := tx.AdjustEmployeeCount(ctx, employee.CompanyID, -1); err != nil {
			return fmt.Errorf("failed to decrement employee count: %w", err)
		}
		deleted = employee
		return nil
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.cache.Invalidate(ctx, deleted.CompanyID)
	s.producer.Produce(events.NewEmployeeEvent(events.EmployeeDeleted, deleted, nil))
	return nil
}

// reload re-reads the employee so the response carries the company reference
// and store timestamps. The write already committed, so a failed read falls
// back to the in-memory record.
func (s *EmployeeService) reload(ctx context.Context, employee *models.Employee) *models.Employee {
	fresh, err := s.repo.GetEmployee(ctx, employee.ID)
	if err != nil {
		s.logger.Error("Failed to reload employee",
			zap.Error(err),
			zap.String("employee_id", employee.ID.String()),
		)
		return employee
	}
	return fresh
}

func (s *EmployeeService) logWriteError(err error) error {
	if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput) {
		return err
	}
	s.logger.Error("employee write failed", zap.Error(err))
	return err
}

func mergeEmployee(current *models.Employee, in *models.EmployeeInput) error {
	if in.FirstName != nil {
		current.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		current.LastName = *in.LastName
	}
	if in.Position != nil {
		current.Position = *in.Position
	}
	if in.CompanyID != nil {
		if *in.CompanyID == uuid.Nil {
			return fmt.Errorf("%w: company is required", e.ErrInvalidInput)
		}
		current.CompanyID = *in.CompanyID
	}
	if in.StartDate != nil {
		current.StartDate = contract.Date(*in.StartDate)
	}

	length, err := resolveContractLength(in.Contract, current.ContractLength)
	if err != nil {
		return err
	}
	current.ContractLength = length

	switch {
	case in.ClearReviewDate:
		current.ReviewDate = nil
	case in.ReviewDate != nil:
		current.ReviewDate = utils.Ptr(contract.Date(*in.ReviewDate))
	}
	return nil
}

// validateEmployee checks required fields and keeps an explicit review date
// within [start date, contract end].
func validateEmployee(emp *models.Employee) error {
	var err error
	if emp.FirstName, err = required("firstName", emp.FirstName); err != nil {
		return err
	}
	if emp.LastName, err = required("lastName", emp.LastName); err != nil {
		return err
	}
	if emp.Position, err = required("position", emp.Position); err != nil {
		return err
	}
	if emp.ReviewDate != nil {
		if err := contract.CheckReviewDate(emp.StartDate, emp.ContractLength, *emp.ReviewDate); err != nil {
			return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
		}
	}
	return nil
}
