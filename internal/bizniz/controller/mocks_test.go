package controller

import (
	"context"
	"sync"
	"testing"

	"github.com/gartstein/bizniz/internal/bizniz/db"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// MockRepository implements the Repository interface for testing
type MockRepository struct {
	listCompanies          func(context.Context) ([]models.Company, error)
	createCompany          func(context.Context, *models.Company) error
	getCompany             func(context.Context, uuid.UUID) (*models.Company, error)
	updateCompany          func(context.Context, *models.Company) error
	listEmployees          func(context.Context) ([]models.Employee, error)
	listEmployeesByCompany func(context.Context, uuid.UUID) ([]models.Employee, error)
	getEmployee            func(context.Context, uuid.UUID) (*models.Employee, error)
	withTransaction        func(context.Context, func(db.Tx) error) error
}

func (m *MockRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return m.listCompanies(ctx)
}

func (m *MockRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

func (m *MockRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.getCompany(ctx, id)
}

func (m *MockRepository) UpdateCompany(ctx context.Context, c *models.Company) error {
	return m.updateCompany(ctx, c)
}

func (m *MockRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return m.listEmployees(ctx)
}

func (m *MockRepository) ListEmployeesByCompany(ctx context.Context, id uuid.UUID) ([]models.Employee, error) {
	return m.listEmployeesByCompany(ctx, id)
}

func (m *MockRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return m.getEmployee(ctx, id)
}

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(db.Tx) error) error {
	return m.withTransaction(ctx, fn)
}

// faultyRepository runs real transactions but makes count adjustments fail.
type faultyRepository struct {
	*db.Repository
	adjustErr error
}

func (f *faultyRepository) WithTransaction(ctx context.Context, fn func(db.Tx) error) error {
	return f.Repository.WithTransaction(ctx, func(tx db.Tx) error {
		return fn(&faultyTx{Tx: tx, adjustErr: f.adjustErr})
	})
}

type faultyTx struct {
	db.Tx
	adjustErr error
}

func (f *faultyTx) AdjustEmployeeCount(context.Context, uuid.UUID, int) error {
	return f.adjustErr
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *MockProducer) Produce(event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProducer) Types() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]events.EventType, 0, len(m.events))
	for _, ev := range m.events {
		types = append(types, ev.Type)
	}
	return types
}

func (m *MockProducer) Last() events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

// memoryCache records invalidations and serves whatever was Set.
type memoryCache struct {
	mu          sync.Mutex
	companies   map[uuid.UUID]models.Company
	invalidated []uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{companies: make(map[uuid.UUID]models.Company)}
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID) (*models.Company, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	company, ok := c.companies[id]
	if !ok {
		return nil, false
	}
	return &company, true
}

func (c *memoryCache) Set(_ context.Context, company *models.Company) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.companies[company.ID] = *company
}

func (c *memoryCache) Invalidate(_ context.Context, ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.companies, id)
		c.invalidated = append(c.invalidated, id)
	}
}

func (c *memoryCache) wasInvalidated(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.invalidated {
		if got == id {
			return true
		}
	}
	return false
}

func setupRepository(t *testing.T) *db.Repository {
	t.Helper()
	repo, err := db.NewRepository(&db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
