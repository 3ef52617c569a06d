package middleware

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"tiyende/internal/metrics"
	"tiyende/internal/ratelimit"
	"tiyende/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const (
	loginLimitKey = "loginLimitKey"
	maxLoginBody  = 4 << 10
)

// LoginRateLimit counts login attempts per client IP and username. Once the window is
// exhausted it answers 429 with Retry-After. A nil limiter disables the check.
func LoginRateLimit(l ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxLoginBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		username := strings.ToLower(strings.TrimSpace(gjson.GetBytes(body, "username").String()))
		key := c.ClientIP() + "|" + username
		ok, retry, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			// the limiter backend being down must not lock everyone out
			utils.LogEvent(GetRequestID(c), "ratelimit", "allow", "warning: "+err.Error())
			c.Next()
			return
		}
		if !ok {
			m.LoginAttempt("limited")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts, try again later"})
			return
		}
		c.Set(loginLimitKey, key)
		c.Next()
	}
}

// ResetLoginLimit clears the attempt counter after a successful login.
func ResetLoginLimit(c *gin.Context, l ratelimit.Limiter) {
	if l == nil {
		return
	}
	key := c.GetString(loginLimitKey)
	if key == "" {
		return
	}
	if err := l.Reset(c.Request.Context(), key); err != nil {
		utils.LogEvent(GetRequestID(c), "ratelimit", "reset", "warning: "+err.Error())
	}
}
