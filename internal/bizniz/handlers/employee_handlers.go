package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

func (h *Handler) ListCompanyEmployees(c *gin.Context) {
	companyID, ok := parseID(c, "companyId", "company")
	if !ok {
		return
	}
	employees, err := h.employees.ListEmployeesByCompany(c.Request.Context(), companyID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c, "id", "employee")
	if !ok {
		return
	}
	employee, err := h.employees.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	in, err := req.toInput(uuid.Nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	created, err := h.employees.CreateEmployee(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c, "id", "employee")
	if !ok {
		return
	}
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	in, err := req.toInput(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := h.employees.UpdateEmployee(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := parseID(c, "id", "employee")
	if !ok {
		return
	}
	if err := h.employees.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Employee deleted successfully"})
}
