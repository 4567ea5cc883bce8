package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/bizniz/internal/bizniz/cache"
	"github.com/gartstein/bizniz/internal/bizniz/controller"
	"github.com/gartstein/bizniz/internal/bizniz/db"
	"github.com/gartstein/bizniz/internal/bizniz/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

// APISuite drives the full stack (gin, services, sqlite) over HTTP.
type APISuite struct {
	suite.Suite
	repo   *db.Repository
	router http.Handler
}

func (s *APISuite) SetupTest() {
	repo, err := db.NewRepository(&db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:"})
	s.Require().NoError(err)
	s.repo = repo

	logger := zaptest.NewLogger(s.T())
	producer := events.NopProducer{}
	companyCache := cache.NopCache{}
	h := NewHandler(
		controller.NewCompanyService(repo, companyCache, producer, logger),
		controller.NewEmployeeService(repo, companyCache, producer, logger),
		controller.NewReconciler(repo, companyCache, producer, logger),
		repo,
		logger,
	)
	s.router = NewRouter(RouterConfig{BasePath: "/api"}, h)
}

func (s *APISuite) TearDownTest() {
	_ = s.repo.Close()
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return doJSON(s.T(), s.router, method, path, body)
}

func (s *APISuite) createCompany(name string) CompanyResponse {
	rec := s.do(http.MethodPost, "/api/companies", map[string]any{"name": name, "location": "Vilnius"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var c CompanyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &c))
	return c
}

func (s *APISuite) company(id string) CompanyResponse {
	rec := s.do(http.MethodGet, "/api/companies/"+id, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var c CompanyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &c))
	return c
}

func (s *APISuite) employeeBody(companyID string) map[string]any {
	return map[string]any{
		"firstName": "Anna",
		"lastName":  "Berzina",
		"position":  "Engineer",
		"company":   companyID,
		"startDate": "2024-01-15",
	}
}

func (s *APISuite) TestCompanyDefaults() {
	c := s.createCompany("Acme")
	s.Equal(12, c.ContractLength)
	s.Equal(1, c.ContractLengthYears)
	s.Equal(0, c.ContractLengthMonths)
	s.Equal(0, c.EmployeeCount)

	rec := s.do(http.MethodPut, "/api/companies/"+c.ID, map[string]any{"contractLengthMonths": 14})
	s.Require().Equal(http.StatusOK, rec.Code)
	var updated CompanyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
	s.Equal(2, updated.ContractLengthYears)
	s.Equal(2, updated.ContractLengthMonths)
	s.Equal(26, updated.ContractLength)
}

func (s *APISuite) TestCompanyNotFound() {
	id := uuid.NewString()
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/companies/"+id, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/companies/"+id, map[string]any{"name": "X"}).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/companies/"+id, nil).Code)
}

func (s *APISuite) TestEmployeeAgainstMissingCompany() {
	rec := s.do(http.MethodPost, "/api/employees", s.employeeBody(uuid.NewString()))
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/employees", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *APISuite) TestReferentialCountLifecycle() {
	a := s.createCompany("A")
	b := s.createCompany("B")

	rec := s.do(http.MethodPost, "/api/employees", s.employeeBody(a.ID))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var emp EmployeeResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &emp))
	s.Require().NotNil(emp.Company)
	s.Equal("A", emp.Company.Name)
	s.Equal("Vilnius", emp.Company.Location)
	s.Equal(1, s.company(a.ID).EmployeeCount)

	rec = s.do(http.MethodDelete, "/api/companies/"+a.ID, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "1 existing employee")
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/companies/"+a.ID, nil).Code)

	rec = s.do(http.MethodPut, "/api/employees/"+emp.ID, map[string]any{"company": b.ID})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(0, s.company(a.ID).EmployeeCount)
	s.Equal(1, s.company(b.ID).EmployeeCount)

	rec = s.do(http.MethodGet, "/api/employees/company/"+b.ID, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list []EmployeeResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Len(list, 1)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/employees/"+emp.ID, nil).Code)
	s.Equal(0, s.company(a.ID).EmployeeCount)
	s.Equal(0, s.company(b.ID).EmployeeCount)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/companies/"+a.ID, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/companies/"+a.ID, nil).Code)
}

func (s *APISuite) TestReviewDateOverride() {
	a := s.createCompany("A")
	body := s.employeeBody(a.ID)
	body["reviewDate"] = "2023-12-01"
	rec := s.do(http.MethodPost, "/api/employees", body)
	s.Equal(http.StatusBadRequest, rec.Code)

	body["reviewDate"] = "2024-06-01"
	rec = s.do(http.MethodPost, "/api/employees", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var emp EmployeeResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &emp))
	s.True(emp.ReviewDateOverridden)
	s.Equal("2024-06-01", emp.EffectiveReviewDate)

	rec = s.do(http.MethodPut, "/api/employees/"+emp.ID, `{"reviewDate": null}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &emp))
	s.False(emp.ReviewDateOverridden)
	s.Nil(emp.ReviewDate)
	s.Equal("2024-10-15", emp.EffectiveReviewDate)
	s.Equal("2025-01-15", emp.ContractEndDate)
}

func (s *APISuite) TestReconcileEndpoint() {
	a := s.createCompany("A")
	rec := s.do(http.MethodPost, "/api/employees", s.employeeBody(a.ID))
	s.Require().Equal(http.StatusCreated, rec.Code)

	id, err := uuid.Parse(a.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.SetEmployeeCount(context.Background(), id, 4))

	rec = s.do(http.MethodPost, "/api/admin/reconcile", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var resp ReconcileAllResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Corrected, 1)
	s.Equal(4, resp.Corrected[0].Previous)
	s.Equal(1, resp.Corrected[0].Current)
	s.Equal(1, s.company(a.ID).EmployeeCount)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestHealthAgainstStore(t *testing.T) {
	repo, err := db.NewRepository(&db.Config{Driver: db.DriverSQLite})
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	router := NewRouter(RouterConfig{}, NewHandler(nil, nil, nil, repo, logger))

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/health", nil).Code)
	require.NoError(t, repo.Close())
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, router, http.MethodGet, "/health", nil).Code)
}
