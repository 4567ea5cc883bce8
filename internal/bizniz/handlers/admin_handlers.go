package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ReconcileAll(c *gin.Context) {
	corrected, err := h.reconciler.ReconcileAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := ReconcileAllResponse{Corrected: make([]ReconciliationResponse, 0, len(corrected))}
	for _, r := range corrected {
		resp.Corrected = append(resp.Corrected, toReconciliationResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ReconcileCompany(c *gin.Context) {
	id, ok := parseID(c, "companyId", "company")
	if !ok {
		return
	}
	res, err := h.reconciler.ReconcileCompany(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toReconciliationResponse(*res))
}

// Health reports 200 while the store answers a ping.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
