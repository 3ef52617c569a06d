package handlers

import (
	"net/http"
	"time"

	"tiyende/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetVendors(c *gin.Context) {
	vendors, err := h.vendors(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (h *Handler) GetVendorByID(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}
	v, err := h.vendors(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateVendor(c *gin.Context) {
	var v models.Vendor
	if !BindJSONOrError(c, &v) {
		return
	}
	v.ID = 0
	v.CreatedAt = time.Time{}
	created, err := h.vendors(c).Create(c.Request.Context(), currentUser(c), v)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}
	body, ok := readObject(c)
	if !ok {
		return
	}
	patch, err := decodeVendorPatch(body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	v, err := h.vendors(c).Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}
	if err := h.vendors(c).Delete(c.Request.Context(), currentUser(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
