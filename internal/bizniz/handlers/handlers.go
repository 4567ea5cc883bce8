// Package handlers exposes the company and employee services over a REST API
// (gin) and runs it next to a gRPC health endpoint.
package handlers

import (
	"context"

	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyController defines the company operations the HTTP handlers invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	CreateCompany(ctx context.Context, in *models.CompanyInput) (*models.Company, error)
	UpdateCompany(ctx context.Context, in *models.CompanyInput) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// EmployeeController defines the employee operations the HTTP handlers invoke.
type EmployeeController interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	CreateEmployee(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, in *models.EmployeeInput) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

type ReconcileController interface {
	ReconcileCompany(ctx context.Context, id uuid.UUID) (*models.Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]models.Reconciliation, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the gin handler funcs for every route.
type Handler struct {
	companies  CompanyController
	employees  EmployeeController
	reconciler ReconcileController
	store      Pinger
	logger     *zap.Logger
}

func NewHandler(
	companies CompanyController,
	employees EmployeeController,
	reconciler ReconcileController,
	store Pinger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		companies:  companies,
		employees:  employees,
		reconciler: reconciler,
		store:      store,
		logger:     logger.Named("http"),
	}
}
