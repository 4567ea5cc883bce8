package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		badRequest(c, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.companies.ListCompanies(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponses(companies))
}

func (h *Handler) GetCompany(c *gin.Context) {
	id, ok := parseID(c, "id", "company")
	if !ok {
		return
	}
	company, err := h.companies.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponse(company))
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	created, err := h.companies.CreateCompany(c.Request.Context(), req.toInput(uuid.Nil))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCompanyResponse(created))
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	id, ok := parseID(c, "id", "company")
	if !ok {
		return
	}
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	updated, err := h.companies.UpdateCompany(c.Request.Context(), req.toInput(id))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyResponse(updated))
}

func (h *Handler) DeleteCompany(c *gin.Context) {
	id, ok := parseID(c, "id", "company")
	if !ok {
		return
	}
	if err := h.companies.DeleteCompany(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Company deleted successfully"})
}
