package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settings(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) GetSetting(c *gin.Context) {
	st, err := h.settings(c).Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpsertSetting stores {value} under :name. Numbers and booleans are kept as their JSON text.
func (h *Handler) UpsertSetting(c *gin.Context) {
	body, ok := readObject(c)
	if !ok {
		return
	}
	var value string
	switch v := body.Get("value"); v.Type {
	case gjson.String:
		value = v.String()
	case gjson.Number, gjson.True, gjson.False:
		value = v.Raw
	case gjson.JSON:
		respondError(c, http.StatusBadRequest, "Value must be a string, number or boolean")
		return
	}
	st, err := h.settings(c).Upsert(c.Request.Context(), currentUser(c), c.Param("name"), value)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
