package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tiyende/internal/auth"
	"tiyende/internal/domain"
	"tiyende/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func staticValidator(claims *auth.Claims) Validator {
	return func(*gin.Context, string) *auth.Claims { return claims }
}

func serve(r *gin.Engine, method, path string, header map[string]string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, http.MethodGet, "/", nil, "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = serve(r, http.MethodGet, "/", map[string]string{"X-Request-ID": "abc-123"}, "")
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "", GetRequestID(nil))
}

func TestRequireAuth(t *testing.T) {
	claims := &auth.Claims{UserID: 7, Username: "chanda", Role: domain.RoleStaff, SessionID: "s-1"}
	r := gin.New()
	r.GET("/ok", RequireAuth(staticValidator(claims)), func(c *gin.Context) {
		rc := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": rc.UserID, "role": rc.Role, "session": c.GetString(sessionIDKey)})
	})
	r.GET("/deny", RequireAuth(staticValidator(nil)), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/ok", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Authentication required"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/ok", map[string]string{"Authorization": "Basic abc"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/ok", map[string]string{"Authorization": "Bearer tok"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"staff","session":"s-1"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/deny", map[string]string{"Authorization": "Bearer tok"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Invalid or expired token"}`, w.Body.String())
}

func TestTokenFromQuery(t *testing.T) {
	var seen string
	r := gin.New()
	r.GET("/stream", TokenFromQuery(), func(c *gin.Context) {
		seen, _ = BearerToken(c)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/stream?token=q-token", nil, "")
	assert.Equal(t, "q-token", seen)

	serve(r, http.MethodGet, "/stream?token=q-token", map[string]string{"Authorization": "Bearer h-token"}, "")
	assert.Equal(t, "h-token", seen)
}

func TestRequireRoles(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(userRoleKey, role)
			}
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.GET("/admin", withRole("Admin"), RequireRoles(domain.RoleAdmin), ok)
	r.GET("/staff", withRole(domain.RoleStaff), RequireRoles(domain.RoleAdmin), ok)
	r.GET("/anon", withRole(""), RequireRoles(domain.RoleAdmin), ok)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", nil, "").Code)

	w := serve(r, http.MethodGet, "/staff", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Admin privileges required"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/anon", nil, "").Code)
}

func TestLoginRateLimit(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(1, time.Minute)
	r := gin.New()
	r.POST("/login", LoginRateLimit(l, nil), func(c *gin.Context) {
		// the body must still be readable downstream
		var body map[string]string
		require.NoError(t, c.ShouldBindJSON(&body))
		if body["password"] == "good" {
			ResetLoginLimit(c, l)
		}
		c.Status(http.StatusOK)
	})

	bad := `{"username":"Admin","password":"bad"}`
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil, bad).Code)
	w := serve(r, http.MethodPost, "/login", nil, `{"username":"admin","password":"bad"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	other := ratelimit.NewMemoryLimiter(1, time.Minute)
	r2 := gin.New()
	r2.POST("/login", LoginRateLimit(other, nil), func(c *gin.Context) {
		ResetLoginLimit(c, other)
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r2, http.MethodPost, "/login", nil, `{"username":"a","password":"good"}`).Code)
	}

	r3 := gin.New()
	r3.POST("/login", LoginRateLimit(nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r3, http.MethodPost, "/login", nil, bad).Code)

	reached := false
	r4 := gin.New()
	r4.POST("/login", LoginRateLimit(ratelimit.NewMemoryLimiter(5, time.Minute), nil), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})
	huge := `{"username":"admin","password":"` + strings.Repeat("a", 8<<10) + `"}`
	w = serve(r4, http.MethodPost, "/login", nil, huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Request body too large")
	assert.False(t, reached)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", map[string]string{"Origin": "http://localhost:5173"}, "")
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/x", map[string]string{"Origin": "http://evil.example"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodOptions, "/x", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "PATCH",
	}, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Len(t, DefaultOrigins(), 6)
}

func TestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/boom", nil, "").Code)
}
