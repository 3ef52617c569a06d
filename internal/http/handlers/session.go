package handlers

import (
	"net/http"
	"strings"

	"tiyende/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and opens a session.
// POST /api/login -> {user, token}
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, token, err := h.users(c).Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	middleware.ResetLoginLimit(c, h.Limiter)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout ends the caller's session.
func (h *Handler) Logout(c *gin.Context) {
	if token, ok := middleware.BearerToken(c); ok {
		h.sessions(c).EndSession(c.Request.Context(), token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RefreshToken swaps a live token for a new one on the same session.
// POST /api/refresh-token {token}
func (h *Handler) RefreshToken(c *gin.Context) {
	body, ok := readObject(c)
	if !ok {
		return
	}
	token := strings.TrimSpace(body.Get("token").String())
	if body.Get("token").Type != gjson.String || token == "" {
		respondError(c, http.StatusBadRequest, "Token is required")
		return
	}
	fresh, ok := h.sessions(c).RefreshSession(c.Request.Context(), token)
	if !ok {
		respondError(c, http.StatusForbidden, "Invalid or expired token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": fresh})
}
