package handlers

import (
	"net/http"
	"strconv"

	"tiyende/internal/domain"
	"tiyende/internal/http/middleware"
	"tiyende/internal/services"

	"github.com/gin-gonic/gin"
)

// GetActivities returns the newest activities. ?limit= defaults to 20.
func (h *Handler) GetActivities(c *gin.Context) {
	limit := domain.DefaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	list, err := h.activity(c).List(c.Request.Context(), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateActivity(c *gin.Context) {
	var in services.ActivityInput
	if !BindJSONOrError(c, &in) {
		return
	}
	a, err := h.activity(c).Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// StreamActivities upgrades to a WebSocket that receives every new activity.
func (h *Handler) StreamActivities(c *gin.Context) {
	if h.Hub == nil {
		respondError(c, http.StatusServiceUnavailable, "Activity stream unavailable")
		return
	}
	h.Hub.ServeWS(c.Writer, c.Request, middleware.CurrentUser(c).UserID)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	svc := services.DashboardService{Store: h.Store}
	stats, err := svc.Stats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
