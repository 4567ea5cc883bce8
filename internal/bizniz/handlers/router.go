package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const DefaultBasePath = "/api"

type RouterConfig struct {
	// BasePath is where the API is mounted, "/api" by default.
	BasePath       string
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(cfg RouterConfig, h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(recovery(h.logger), requestLogger(h.logger))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(allowOrigins(cfg.AllowedOrigins))
	}

	router.GET("/health", h.Health)

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}
	api := router.Group(basePath)
	{
		api.GET("/companies", h.ListCompanies)
		api.POST("/companies", h.CreateCompany)
		api.GET("/companies/:id", h.GetCompany)
		api.PUT("/companies/:id", h.UpdateCompany)
		api.DELETE("/companies/:id", h.DeleteCompany)

		api.GET("/employees", h.ListEmployees)
		api.POST("/employees", h.CreateEmployee)
		api.GET("/employees/company/:companyId", h.ListCompanyEmployees)
		api.GET("/employees/:id", h.GetEmployee)
		api.PUT("/employees/:id", h.UpdateEmployee)
		api.DELETE("/employees/:id", h.DeleteEmployee)

		api.POST("/admin/reconcile", h.ReconcileAll)
		api.POST("/admin/reconcile/:companyId", h.ReconcileCompany)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, messageResponse{Message: "route not found"})
	})
	return router
}
