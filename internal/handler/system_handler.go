package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classmgmt/class-management-backend/internal/database"
	"github.com/classmgmt/class-management-backend/internal/response"
)

// SystemHandler serves operational endpoints.
type SystemHandler struct {
	db *database.DB
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db *database.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health godoc
// GET /health
// Reports whether the configured storage backend is reachable.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
		return
	}

	response.Success(c, http.StatusOK, "Class Management System backend is running",
		gin.H{"database": string(h.db.Driver)})
}
