// Package db implements the record store on top of GORM. Companies and employees
// live in two tables; the employee count on a company is adjusted with atomic
// column expressions, never with read-modify-write.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbmodels "github.com/gartstein/bizniz/internal/bizniz/db/models"
	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Tx is the set of operations available inside WithTransaction.
type Tx interface {
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	AdjustEmployeeCount(ctx context.Context, companyID uuid.UUID, delta int) error
	SetEmployeeCount(ctx context.Context, companyID uuid.UUID, count int) error
	CountEmployees(ctx context.Context, companyID uuid.UUID) (int, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		path := c.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("%w %q", errUnsupportedDriver, c.Driver)
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// Every new connection to :memory: is a fresh, empty database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := db.AutoMigrate(&dbmodels.Company{}, &dbmodels.Employee{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var rows []dbmodels.Company
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]models.Company, 0, len(rows))
	for i := range rows {
		companies = append(companies, *companyFromRow(&rows[i]))
	}
	return companies, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	row := companyToRow(company)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	company.CreatedAt = row.CreatedAt
	company.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var row dbmodels.Company
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company %s", e.ErrNotFound, id)
		}
		return nil, result.Error
	}
	return companyFromRow(&row), nil
}

// UpdateCompany writes the editable company fields. The employee count is left
// alone; it only moves through AdjustEmployeeCount and SetEmployeeCount.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]interface{}{
			"name":            company.Name,
			"location":        company.Location,
			"description":     company.Description,
			"contract_length": company.ContractLength,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, company.ID)
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, id)
	}
	return nil
}

// AdjustEmployeeCount atomically adds delta to the company's employee count.
func (r *Repository) AdjustEmployeeCount(ctx context.Context, companyID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", companyID).
		UpdateColumn("employee_count", gorm.Expr("employee_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, companyID)
	}
	return nil
}

// SetEmployeeCount overwrites the employee count; used by reconciliation only.
func (r *Repository) SetEmployeeCount(ctx context.Context, companyID uuid.UUID, count int) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", companyID).
		UpdateColumn("employee_count", count)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, companyID)
	}
	return nil
}

// CountEmployees returns the live number of employees referencing the company.
func (r *Repository) CountEmployees(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) withCompanyRef(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Company", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "location")
	})
}

func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var rows []dbmodels.Employee
	if err := r.withCompanyRef(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return employeesFromRows(rows), nil
}

func (r *Repository) ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	var rows []dbmodels.Employee
	err := r.withCompanyRef(ctx).
		Where("company_id = ?", companyID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return employeesFromRows(rows), nil
}

func employeesFromRows(rows []dbmodels.Employee) []models.Employee {
	employees := make([]models.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, *employeeFromRow(&rows[i]))
	}
	return employees
}

func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var row dbmodels.Employee
	result := r.withCompanyRef(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", e.ErrNotFound, id)
		}
		return nil, result.Error
	}
	return employeeFromRow(&row), nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	row := employeeToRow(employee)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return err
	}
	employee.CreatedAt = row.CreatedAt
	employee.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("id = ?", employee.ID).
		Updates(map[string]interface{}{
			"first_name":      employee.FirstName,
			"last_name":       employee.LastName,
			"position":        employee.Position,
			"company_id":      employee.CompanyID,
			"contract_length": employee.ContractLength,
			"start_date":      employee.StartDate,
			"review_date":     employee.ReviewDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: employee %s", e.ErrNotFound, employee.ID)
	}
	return nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: employee %s", e.ErrNotFound, id)
	}
	return nil
}

// WithTransaction runs fn against a repository bound to a single transaction.
// Any error returned by fn rolls the transaction back.
func (r *Repository) WithTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
