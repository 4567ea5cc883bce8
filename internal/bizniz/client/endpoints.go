package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out []Company
	err := c.do(ctx, http.MethodGet, "/companies", nil, &out)
	return out, err
}

func (c *Client) GetCompany(ctx context.Context, id string) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodGet, "/companies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCompany(ctx context.Context, p CompanyPayload) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodPost, "/companies", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, p CompanyPayload) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodPut, "/companies/"+url.PathEscape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCompany returns the server's confirmation message.
func (c *Client) DeleteCompany(ctx context.Context, id string) (string, error) {
	var out messageBody
	err := c.do(ctx, http.MethodDelete, "/companies/"+url.PathEscape(id), nil, &out)
	return out.Message, err
}

func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	err := c.do(ctx, http.MethodGet, "/employees", nil, &out)
	return out, err
}

func (c *Client) ListCompanyEmployees(ctx context.Context, companyID string) ([]Employee, error) {
	var out []Employee
	err := c.do(ctx, http.MethodGet, "/employees/company/"+url.PathEscape(companyID), nil, &out)
	return out, err
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodGet, "/employees/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, p EmployeePayload) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPost, "/employees", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, p EmployeePayload) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) (string, error) {
	var out messageBody
	err := c.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil, &out)
	return out.Message, err
}

func (c *Client) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	var out struct {
		Corrected []Reconciliation `json:"corrected"`
	}
	err := c.do(ctx, http.MethodPost, "/admin/reconcile", nil, &out)
	return out.Corrected, err
}

func (c *Client) ReconcileCompany(ctx context.Context, id string) (*Reconciliation, error) {
	var out Reconciliation
	if err := c.do(ctx, http.MethodPost, "/admin/reconcile/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
