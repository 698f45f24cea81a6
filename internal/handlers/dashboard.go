package handlers

import (
	"net/http"
	"time"

	"planeteye/backend/internal/middleware"
	"planeteye/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db               *gorm.DB
	dashboardService services.DashboardService
}

func NewDashboardHandler(db *gorm.DB, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{db: db, dashboardService: dashboardService}
}

// GetDashboard serves the summary variant matching the actor's role; the
// client renders whichever section is populated.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	dashboard, err := h.dashboardService.Summary(h.db, actor, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
