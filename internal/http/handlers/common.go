package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"tiyende/internal/auth"
	"tiyende/internal/domain"
	"tiyende/internal/http/middleware"
	"tiyende/internal/metrics"
	"tiyende/internal/ratelimit"
	"tiyende/internal/realtime"
	"tiyende/internal/repositories"
	"tiyende/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// Handler carries the process-wide dependencies. Services are built per request so each
// one logs with the caller's request id.
type Handler struct {
	Store   repositories.Store
	Tokens  *auth.TokenService
	Limiter ratelimit.Limiter
	Hub     *realtime.Hub
	Metrics *metrics.Metrics
}

func (h *Handler) activity(c *gin.Context) services.ActivityService {
	svc := services.ActivityService{Store: h.Store, RequestID: middleware.GetRequestID(c)}
	if h.Hub != nil {
		svc.Publisher = h.Hub
	}
	return svc
}

func (h *Handler) sessions(c *gin.Context) services.SessionService {
	return services.SessionService{
		Users:     h.Store,
		Tokens:    h.Tokens,
		Activity:  h.activity(c),
		Metrics:   h.Metrics,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) users(c *gin.Context) services.UserService {
	return services.UserService{
		Store:     h.Store,
		Sessions:  h.sessions(c),
		Activity:  h.activity(c),
		Metrics:   h.Metrics,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) vendors(c *gin.Context) services.VendorService {
	return services.VendorService{Store: h.Store, Activity: h.activity(c), RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) routes(c *gin.Context) services.RouteService {
	return services.RouteService{Store: h.Store, Activity: h.activity(c), RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) tickets(c *gin.Context) services.TicketService {
	return services.TicketService{
		Store:     h.Store,
		Activity:  h.activity(c),
		Metrics:   h.Metrics,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) settings(c *gin.Context) services.SettingService {
	return services.SettingService{Store: h.Store, Activity: h.activity(c), RequestID: middleware.GetRequestID(c)}
}

// ValidateToken adapts the session service to middleware.RequireAuth.
func (h *Handler) ValidateToken(c *gin.Context, token string) *auth.Claims {
	return h.sessions(c).ValidateSession(c.Request.Context(), token)
}

// parseID reads a positive integer path parameter. On failure it answers 400 "Invalid <label> ID".
func parseID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive integer query parameter. Absent yields 0.
func queryID(c *gin.Context, key, label string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "Request body is required")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// readObject returns the request body as a JSON object for key-presence checks.
func readObject(c *gin.Context) (gjson.Result, bool) {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "Request body is required")
		return gjson.Result{}, false
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !gjson.ValidBytes(body) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return gjson.Result{}, false
	}
	obj := gjson.ParseBytes(body)
	if !obj.IsObject() {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return gjson.Result{}, false
	}
	return obj, true
}

func currentUser(c *gin.Context) domain.RequestContext {
	return middleware.CurrentUser(c)
}
