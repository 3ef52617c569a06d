package api

import (
	stdhttp "net/http"

	"tiyende/internal/config"
	"tiyende/internal/domain"
	h "tiyende/internal/http/handlers"
	"tiyende/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// NewRouter wires the REST surface onto a gin engine.
func NewRouter(cfg *config.Config, hd *h.Handler, lg *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(lg), gin.Recovery(), middleware.CORS(cfg.Server.CORSOrigins))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if hd.Metrics != nil {
		r.Use(hd.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(hd.Metrics.Handler()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		lg.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{"message": "Route not found"})
	})

	authed := middleware.RequireAuth(hd.ValidateToken)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/system/routes", authed, adminOnly, h.Routes)

		// Auth
		api.POST("/login", middleware.LoginRateLimit(hd.Limiter, hd.Metrics), hd.Login)
		api.POST("/logout", authed, hd.Logout)
		api.POST("/refresh-token", hd.RefreshToken)

		// Users
		users := api.Group("/users", authed, adminOnly)
		users.GET("", hd.GetUsers)
		users.POST("", hd.CreateUser)
		users.GET("/:id", hd.GetUserByID)
		users.PATCH("/:id", hd.UpdateUser)
		users.DELETE("/:id", hd.DeleteUser)

		// Vendors
		vendors := api.Group("/vendors", authed)
		vendors.GET("", hd.GetVendors)
		vendors.POST("", hd.CreateVendor)
		vendors.GET("/:id", hd.GetVendorByID)
		vendors.PATCH("/:id", hd.UpdateVendor)
		vendors.DELETE("/:id", hd.DeleteVendor)

		// Routes
		routes := api.Group("/routes", authed)
		routes.GET("", hd.GetRoutes)
		routes.POST("", hd.CreateRoute)
		routes.GET("/:id", hd.GetRouteByID)
		routes.PATCH("/:id", hd.UpdateRoute)
		routes.DELETE("/:id", hd.DeleteRoute)

		// Tickets
		tickets := api.Group("/tickets", authed)
		tickets.GET("", hd.GetTickets)
		tickets.POST("", hd.CreateTicket)
		tickets.GET("/reference/:reference", hd.GetTicketByReference)
		tickets.GET("/:id", hd.GetTicketByID)
		tickets.PATCH("/:id", hd.UpdateTicket)
		tickets.GET("/:id/e-ticket", hd.GetTicketETicketPDF)

		// Settings
		settings := api.Group("/settings", authed)
		settings.GET("", hd.GetSettings)
		settings.GET("/:name", hd.GetSetting)
		settings.POST("/:name", adminOnly, hd.UpsertSetting)

		api.GET("/dashboard", authed, hd.GetDashboard)

		// Activities
		api.GET("/activities", authed, hd.GetActivities)
		api.POST("/activities", authed, hd.CreateActivity)
		api.GET("/activities/stream", middleware.TokenFromQuery(), authed, hd.StreamActivities)
	}

	h.SetRouter(r)
	return r
}
