package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gridbill/gridbill/internal/server/http/dto"
)

// DashboardHandler serves the portal landing page aggregate.
type DashboardHandler struct {
	facade DashboardFacade
}

// NewDashboardHandler creates DashboardHandler instance.
func NewDashboardHandler(facade DashboardFacade) *DashboardHandler {
	return &DashboardHandler{facade: facade}
}

// Summary handles GET /api/users/dashboard.
func (h *DashboardHandler) Summary(c *gin.Context) {
	usr := CurrentUser(c)
	if usr == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	summary, err := h.facade.Dashboard(c.Request.Context(), usr.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(summary))
}
