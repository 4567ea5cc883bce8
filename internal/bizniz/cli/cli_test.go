package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gartstein/bizniz/internal/bizniz/client"
	"github.com/gartstein/bizniz/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListCompanies(ctx context.Context) ([]client.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]client.Company), args.Error(1)
}

func (m *MockAPI) GetCompany(ctx context.Context, id string) (*client.Company, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*client.Company)
	return c, args.Error(1)
}

func (m *MockAPI) CreateCompany(ctx context.Context, p client.CompanyPayload) (*client.Company, error) {
	args := m.Called(ctx, p)
	c, _ := args.Get(0).(*client.Company)
	return c, args.Error(1)
}

func (m *MockAPI) UpdateCompany(ctx context.Context, id string, p client.CompanyPayload) (*client.Company, error) {
	args := m.Called(ctx, id, p)
	c, _ := args.Get(0).(*client.Company)
	return c, args.Error(1)
}

func (m *MockAPI) DeleteCompany(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) ListEmployees(ctx context.Context) ([]client.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]client.Employee), args.Error(1)
}

func (m *MockAPI) ListCompanyEmployees(ctx context.Context, companyID string) ([]client.Employee, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]client.Employee), args.Error(1)
}

func (m *MockAPI) GetEmployee(ctx context.Context, id string) (*client.Employee, error) {
	args := m.Called(ctx, id)
	emp, _ := args.Get(0).(*client.Employee)
	return emp, args.Error(1)
}

func (m *MockAPI) CreateEmployee(ctx context.Context, p client.EmployeePayload) (*client.Employee, error) {
	args := m.Called(ctx, p)
	emp, _ := args.Get(0).(*client.Employee)
	return emp, args.Error(1)
}

func (m *MockAPI) UpdateEmployee(ctx context.Context, id string, p client.EmployeePayload) (*client.Employee, error) {
	args := m.Called(ctx, id, p)
	emp, _ := args.Get(0).(*client.Employee)
	return emp, args.Error(1)
}

func (m *MockAPI) DeleteEmployee(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) ReconcileAll(ctx context.Context) ([]client.Reconciliation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]client.Reconciliation), args.Error(1)
}

func (m *MockAPI) ReconcileCompany(ctx context.Context, id string) (*client.Reconciliation, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*client.Reconciliation)
	return r, args.Error(1)
}

func run(t *testing.T, api *MockAPI, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(WithIO(strings.NewReader(stdin), &out), WithAPI(api))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var acme = &client.Company{
	ID:                  "c1",
	Name:                "Acme",
	Location:            "Berlin",
	ContractLength:      26,
	ContractLengthLabel: "2 years and 2 months",
	EmployeeCount:       3,
}

func TestCompanyList(t *testing.T) {
	api := &MockAPI{}
	api.On("ListCompanies", mock.Anything).Return([]client.Company{*acme}, nil)

	out, err := run(t, api, "", "company", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Berlin")
	assert.Contains(t, out, "2 years and 2 months")
	assert.Contains(t, out, "3")
	api.AssertExpectations(t)
}

func TestCompanyListEmpty(t *testing.T) {
	api := &MockAPI{}
	api.On("ListCompanies", mock.Anything).Return([]client.Company{}, nil)

	out, err := run(t, api, "", "company", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No companies found.")
}

func TestCompanyCreateNormalizesDuration(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		length *int
	}{
		{name: "no duration flags", args: nil, length: nil},
		{name: "months roll into years", args: []string{"--years", "1", "--months", "14"}, length: utils.Ptr(26)},
		{name: "months only", args: []string{"--months", "5"}, length: utils.Ptr(5)},
		{name: "flat length", args: []string{"--contract-length", "18"}, length: utils.Ptr(18)},
		{name: "step from default", args: []string{"--step-months", "-1"}, length: utils.Ptr(11)},
		{name: "step below zero floors", args: []string{"--contract-length", "0", "--step-months", "-1"}, length: utils.Ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockAPI{}
			want := client.CompanyPayload{
				Name:           utils.Ptr("Acme"),
				Location:       utils.Ptr("Berlin"),
				ContractLength: tt.length,
			}
			api.On("CreateCompany", mock.Anything, want).Return(acme, nil)

			args := append([]string{"company", "create", "--name", " Acme ", "--location", "Berlin"}, tt.args...)
			out, err := run(t, api, "", args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Company created.")
			api.AssertExpectations(t)
		})
	}
}

func TestCompanyUpdateStepsCurrentDuration(t *testing.T) {
	api := &MockAPI{}
	current := &client.Company{ID: "c1", ContractLength: 11}
	api.On("GetCompany", mock.Anything, "c1").Return(current, nil)
	api.On("UpdateCompany", mock.Anything, "c1", client.CompanyPayload{ContractLength: utils.Ptr(12)}).Return(acme, nil)

	_, err := run(t, api, "", "company", "update", "c1", "--step-months", "1")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestCompanyUpdateKeepsCurrentYears(t *testing.T) {
	api := &MockAPI{}
	api.On("GetCompany", mock.Anything, "c1").Return(acme, nil)
	api.On("UpdateCompany", mock.Anything, "c1", client.CompanyPayload{ContractLength: utils.Ptr(27)}).Return(acme, nil)

	_, err := run(t, api, "", "company", "update", "c1", "--months", "3")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestCompanyUpdateWithoutDurationSkipsLookup(t *testing.T) {
	api := &MockAPI{}
	api.On("UpdateCompany", mock.Anything, "c1", client.CompanyPayload{Description: utils.Ptr("")}).Return(acme, nil)

	_, err := run(t, api, "", "company", "update", "c1", "--description", "")
	require.NoError(t, err)
	api.AssertNotCalled(t, "GetCompany", mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestCompanyUpdateRequiresAField(t *testing.T) {
	api := &MockAPI{}
	_, err := run(t, api, "", "--api", "http://example.test/api", "company", "update", "c1")
	require.ErrorIs(t, err, errNothingToUpdate)
}

func TestNegativeYearsRejected(t *testing.T) {
	api := &MockAPI{}
	_, err := run(t, api, "", "company", "create", "--name", "Acme", "--location", "Berlin", "--years", "-1")
	require.EqualError(t, err, "--years must not be negative")
	api.AssertNotCalled(t, "CreateCompany", mock.Anything, mock.Anything)
}

func TestDeleteConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		deleted bool
	}{
		{name: "declined", stdin: "n\n", deleted: false},
		{name: "empty answer declines", stdin: "\n", deleted: false},
		{name: "no input declines", stdin: "", deleted: false},
		{name: "confirmed", stdin: "y\n", deleted: true},
		{name: "confirmed without newline", stdin: "YES", deleted: true},
		{name: "yes flag", args: []string{"--yes"}, deleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockAPI{}
			api.On("DeleteCompany", mock.Anything, "c1").Return("Company deleted successfully", nil).Maybe()

			out, err := run(t, api, tt.stdin, append([]string{"company", "delete", "c1"}, tt.args...)...)
			require.NoError(t, err)
			if tt.deleted {
				assert.Contains(t, out, "Company deleted successfully")
				api.AssertCalled(t, "DeleteCompany", mock.Anything, "c1")
			} else {
				assert.Contains(t, out, "Aborted.")
				api.AssertNotCalled(t, "DeleteCompany", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAPIErrorMessageIsVerbatim(t *testing.T) {
	api := &MockAPI{}
	msg := "conflict: cannot delete company with 2 existing employee(s), reassign or delete them first"
	api.On("DeleteCompany", mock.Anything, "c1").Return("", &client.APIError{Status: 400, Message: msg})

	_, err := run(t, api, "", "company", "delete", "c1", "--yes")
	require.EqualError(t, err, msg)
}

func TestEmployeeCreate(t *testing.T) {
	api := &MockAPI{}
	want := client.EmployeePayload{
		FirstName:  utils.Ptr("Ada"),
		LastName:   utils.Ptr("Lovelace"),
		Position:   utils.Ptr("Engineer"),
		Company:    utils.Ptr("c1"),
		StartDate:  utils.Ptr("2024-01-31"),
		ReviewDate: utils.Ptr("2024-06-01"),
	}
	api.On("CreateEmployee", mock.Anything, want).Return(&client.Employee{ID: "e1", FirstName: "Ada", LastName: "Lovelace"}, nil)

	out, err := run(t, api, "",
		"employee", "create",
		"--first-name", "Ada", "--last-name", "Lovelace", "--position", "Engineer",
		"--company", "c1", "--start-date", "2024-01-31", "--review-date", "2024-06-01T10:00:00Z",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Employee created.")
	assert.Contains(t, out, "Ada Lovelace")
	api.AssertExpectations(t)
}

func TestEmployeeCreateRejectsBadDate(t *testing.T) {
	api := &MockAPI{}
	_, err := run(t, api, "", "employee", "create", "--start-date", "31.01.2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start-date")
}

func TestEmployeeCreateRejectsClearReview(t *testing.T) {
	api := &MockAPI{}
	_, err := run(t, api, "", "employee", "create", "--clear-review-date")
	require.EqualError(t, err, "--clear-review-date only applies to update")
}

func TestEmployeeUpdateClearsReviewDate(t *testing.T) {
	api := &MockAPI{}
	api.On("UpdateEmployee", mock.Anything, "e1", client.EmployeePayload{ClearReviewDate: true}).
		Return(&client.Employee{ID: "e1"}, nil)

	out, err := run(t, api, "", "employee", "update", "e1", "--clear-review-date")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee updated.")
	api.AssertExpectations(t)
}

func TestEmployeeUpdateReviewFlagsExclusive(t *testing.T) {
	api := &MockAPI{}
	_, err := run(t, api, "", "employee", "update", "e1", "--clear-review-date", "--review-date", "2024-01-01")
	require.Error(t, err)
	api.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeUpdateMovesCompany(t *testing.T) {
	api := &MockAPI{}
	api.On("GetEmployee", mock.Anything, "e1").Return(&client.Employee{ID: "e1", ContractLength: 12}, nil)
	api.On("UpdateEmployee", mock.Anything, "e1", client.EmployeePayload{
		Company:        utils.Ptr("c2"),
		ContractLength: utils.Ptr(11),
	}).Return(&client.Employee{ID: "e1"}, nil)

	_, err := run(t, api, "", "employee", "update", "e1", "--company", "c2", "--step-months", "-1")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestEmployeeListByCompany(t *testing.T) {
	api := &MockAPI{}
	review := "2024-05-01"
	api.On("ListCompanyEmployees", mock.Anything, "c1").Return([]client.Employee{{
		ID:                   "e1",
		FirstName:            "Ada",
		LastName:             "Lovelace",
		Position:             "Engineer",
		CompanyID:            "c1",
		Company:              &client.CompanyRef{ID: "c1", Name: "Acme"},
		ContractLengthLabel:  "1 year",
		StartDate:            "2024-01-31",
		ContractEndDate:      "2025-01-31",
		ReviewDate:           &review,
		EffectiveReviewDate:  review,
		ReviewDateOverridden: true,
	}}, nil)

	out, err := run(t, api, "", "employee", "list", "--company", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "31.01.2024")
	assert.Contains(t, out, "31.01.2025")
	assert.Contains(t, out, "01.05.2024 (manual)")
	api.AssertNotCalled(t, "ListEmployees", mock.Anything)
}

func TestReconcile(t *testing.T) {
	t.Run("all consistent", func(t *testing.T) {
		api := &MockAPI{}
		api.On("ReconcileAll", mock.Anything).Return([]client.Reconciliation{}, nil)

		out, err := run(t, api, "", "reconcile")
		require.NoError(t, err)
		assert.Contains(t, out, "All employee counts are consistent.")
	})

	t.Run("one company corrected", func(t *testing.T) {
		api := &MockAPI{}
		api.On("ReconcileCompany", mock.Anything, "c1").
			Return(&client.Reconciliation{CompanyID: "c1", Previous: 5, Current: 2, Changed: true}, nil)

		out, err := run(t, api, "", "reconcile", "c1")
		require.NoError(t, err)
		assert.Contains(t, out, "c1")
		assert.Contains(t, out, "5")
		assert.Contains(t, out, "2")
	})

	t.Run("one company unchanged", func(t *testing.T) {
		api := &MockAPI{}
		api.On("ReconcileCompany", mock.Anything, "c1").
			Return(&client.Reconciliation{CompanyID: "c1", Previous: 2, Current: 2}, nil)

		out, err := run(t, api, "", "reconcile", "c1")
		require.NoError(t, err)
		assert.Contains(t, out, "Employee count of c1 is consistent (2).")
	})
}

func TestAPIURLResolution(t *testing.T) {
	t.Setenv(APIURLEnv, "http://env.example.test/api")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "environment", want: "http://env.example.test/api"},
		{name: "flag wins", args: []string{"--api", "http://flag.example.test/api"}, want: "http://flag.example.test/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockAPI{}
			api.On("ListCompanies", mock.Anything).Return([]client.Company{}, nil)

			var got string
			captureURL := func(a *app) {
				a.newAPI = func(baseURL string) API {
					got = baseURL
					return api
				}
			}

			var out bytes.Buffer
			root := NewRootCommand(WithIO(strings.NewReader(""), &out), captureURL)
			root.SetArgs(append(tt.args, "company", "list"))
			require.NoError(t, root.Execute())
			assert.Equal(t, tt.want, got)
		})
	}
}
