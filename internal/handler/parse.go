package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laicai0810/addr-parser-cn/internal/models"
)

// ParseHandler handles address parsing requests
type ParseHandler struct {
	service AddressService
}

// Service interface for dependency injection
type AddressService interface {
	Parse(ctx context.Context, addr string) (models.ResolvedAddress, error)
	Reload(ctx context.Context) error
}

// NewParseHandler creates a new parse handler
func NewParseHandler(svc AddressService) *ParseHandler {
	return &ParseHandler{service: svc}
}

// Parse handles GET /parse requests
func (h *ParseHandler) Parse(c *gin.Context) {
	addr := c.Query("addr")
	if addr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'addr'"})
		return
	}

	result, err := h.service.Parse(c.Request.Context(), addr)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "gazetteer not ready"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reload handles POST /reload requests
func (h *ParseHandler) Reload(c *gin.Context) {
	if err := h.service.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload gazetteer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
