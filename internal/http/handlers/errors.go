package handlers

import (
	"net/http"

	"tiyende/internal/domain"
	"tiyende/internal/http/middleware"
	"tiyende/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

// RespondDomainError maps domain errors to HTTP responses. Anything unrecognised is logged and
// answered with a generic 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err), domain.IsReferential(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error())
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, err.Error())
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, err.Error())
	default:
		utils.Logger().Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
