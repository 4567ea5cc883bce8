package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/bizniz/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func newTestServer(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", nil), rec
}

func TestListCompanies(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK,
		`[{"id":"a","name":"Acme","location":"Berlin","contractLength":18,"contractLengthLabel":"1 year 6 months","employeeCount":2}]`)

	companies, err := c.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, 18, companies[0].ContractLength)
	assert.Equal(t, 2, companies[0].EmployeeCount)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/companies", rec.path)
}

func TestCreateCompanyOmitsUnsetFields(t *testing.T) {
	c, rec := newTestServer(t, http.StatusCreated, `{"id":"a","name":"Acme"}`)

	_, err := c.CreateCompany(context.Background(), CompanyPayload{
		Name:     utils.Ptr("Acme"),
		Location: utils.Ptr("Berlin"),
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, map[string]any{"name": "Acme", "location": "Berlin"}, rec.body)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadRequest,
		`{"message":"conflict: cannot delete company with 2 existing employee(s), reassign or delete them first"}`)

	_, err := c.DeleteCompany(context.Background(), "a")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "conflict: cannot delete company with 2 existing employee(s), reassign or delete them first", err.Error())
}

func TestAPIErrorWithoutJSONBody(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadGateway, "")

	_, err := c.GetCompany(context.Background(), "a")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "502 Bad Gateway", apiErr.Message)
}

func TestDeleteReturnsMessage(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"message":"Employee deleted successfully"}`)

	msg, err := c.DeleteEmployee(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Employee deleted successfully", msg)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/employees/e1", rec.path)
}

func TestEmployeePayloadReviewDate(t *testing.T) {
	tests := []struct {
		name    string
		payload EmployeePayload
		want    map[string]any
	}{
		{
			name:    "absent",
			payload: EmployeePayload{Position: utils.Ptr("Dev")},
			want:    map[string]any{"position": "Dev"},
		},
		{
			name:    "set",
			payload: EmployeePayload{ReviewDate: utils.Ptr("2024-05-01")},
			want:    map[string]any{"reviewDate": "2024-05-01"},
		},
		{
			name:    "cleared",
			payload: EmployeePayload{ReviewDate: utils.Ptr("2024-05-01"), ClearReviewDate: true},
			want:    map[string]any{"reviewDate": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListCompanyEmployees(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK,
		`[{"id":"e1","firstName":"Ada","lastName":"Lovelace","reviewDate":null,"reviewDateOverridden":false,"company":{"id":"c1","name":"Acme"}}]`)

	employees, err := c.ListCompanyEmployees(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "/api/employees/company/c1", rec.path)
	assert.Nil(t, employees[0].ReviewDate)
	require.NotNil(t, employees[0].Company)
	assert.Equal(t, "Acme", employees[0].Company.Name)
}

func TestReconcile(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK,
		`{"corrected":[{"companyId":"c1","previous":3,"current":1,"changed":true}]}`)

	corrected, err := c.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/admin/reconcile", rec.path)
	assert.Equal(t, []Reconciliation{{CompanyID: "c1", Previous: 3, Current: 1, Changed: true}}, corrected)
}
