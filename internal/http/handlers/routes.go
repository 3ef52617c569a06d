package handlers

import (
	"net/http"
	"time"

	"tiyende/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetRoutes lists routes, optionally narrowed with ?vendorId=.
func (h *Handler) GetRoutes(c *gin.Context) {
	vendorID, ok := queryID(c, "vendorId", "vendor")
	if !ok {
		return
	}
	routes, err := h.routes(c).List(c.Request.Context(), vendorID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *Handler) GetRouteByID(c *gin.Context) {
	id, ok := parseID(c, "id", "route")
	if !ok {
		return
	}
	r, err := h.routes(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) CreateRoute(c *gin.Context) {
	var r models.Route
	if !BindJSONOrError(c, &r) {
		return
	}
	r.ID = 0
	r.CreatedAt = time.Time{}
	created, err := h.routes(c).Create(c.Request.Context(), currentUser(c), r)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateRoute(c *gin.Context) {
	id, ok := parseID(c, "id", "route")
	if !ok {
		return
	}
	body, ok := readObject(c)
	if !ok {
		return
	}
	patch, err := decodeRoutePatch(body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	r, err := h.routes(c).Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteRoute(c *gin.Context) {
	id, ok := parseID(c, "id", "route")
	if !ok {
		return
	}
	if err := h.routes(c).Delete(c.Request.Context(), currentUser(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
