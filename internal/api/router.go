package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nriproperty/portal/internal/auth"
	"github.com/nriproperty/portal/internal/handlers"
	"github.com/nriproperty/portal/internal/middleware"
)

// Config carries the wiring the router needs.
type Config struct {
	Tokens          *auth.JWTService
	ApprovalChecker middleware.ApprovalChecker

	Auth      *handlers.AuthHandler
	Enquiry   *handlers.EnquiryHandler
	Dashboard *handlers.DashboardHandler
	Contract  *handlers.ContractHandler
	Support   *handlers.SupportHandler
	Views     *handlers.ViewHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler

	AllowedOrigins []string
	UploadsDir     string

	// OTPRateLimit bounds send-otp / verify-otp / admin login attempts per
	// client IP per minute.
	OTPRateLimit int
}

// NewRouter assembles the full HTTP surface: public intake endpoints, the
// authenticated client portal and the operator console.
func NewRouter(cfg Config) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
	)

	router.GET("/health", cfg.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	uploadsDir := cfg.UploadsDir
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	router.Static("/uploads", uploadsDir)

	limit := cfg.OTPRateLimit
	if limit <= 0 {
		limit = 5
	}
	otpLimiter := middleware.NewRateLimiter(limit, time.Minute)

	authRequired := middleware.Auth(cfg.Tokens, cfg.ApprovalChecker)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.Enquiry.Register)
		api.POST("/check-email", cfg.Enquiry.CheckEmail)
		api.POST("/support", cfg.Support.Create)

		views := api.Group("/views")
		{
			views.GET("/view", cfg.Views.Current)
			views.POST("/increment-view", cfg.Views.Increment)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/send-otp", middleware.RateLimit(otpLimiter), cfg.Auth.SendOTP)
			authGroup.POST("/verify-otp", middleware.RateLimit(otpLimiter), cfg.Auth.VerifyOTP)
			authGroup.GET("/user", authRequired, cfg.Auth.Me)
		}

		dashboard := api.Group("/dashboard", authRequired)
		{
			dashboard.GET("/dashboard-data", cfg.Dashboard.DashboardData)
			dashboard.GET("/profile", cfg.Dashboard.Profile)
			dashboard.PUT("/update-profile", cfg.Dashboard.UpdateProfile)
			dashboard.GET("/contracts", cfg.Dashboard.Contracts)
			dashboard.GET("/notifications", cfg.Dashboard.Notifications)
			dashboard.POST("/notifications/:id/read", cfg.Dashboard.MarkNotificationRead)
			dashboard.POST("/notifications/read-all", cfg.Dashboard.MarkAllNotificationsRead)
			dashboard.GET("/messages", cfg.Dashboard.Messages)
			dashboard.POST("/send-message", cfg.Dashboard.SendMessage)
			dashboard.POST("/upload-document", cfg.Contract.UploadSignedDocument)
		}

		api.GET("/contract/path/:email", authRequired, cfg.Contract.PathByEmail)
		api.POST("/contract-signed/upload-signed-contract", authRequired, cfg.Contract.UploadSignedDocument)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/login", middleware.RateLimit(otpLimiter), cfg.Admin.Login)

		protected := admin.Group("", authRequired, middleware.RequireAdmin())
		{
			protected.GET("/new-queries", cfg.Admin.NewQueries)
			protected.POST("/approve/:id", cfg.Admin.ApproveLead)
			protected.POST("/verify/:id", cfg.Admin.VerifyLead)
			protected.GET("/approved-users", cfg.Admin.ApprovedUsers)
			protected.GET("/queries-stats", cfg.Admin.QueriesStats)
			protected.GET("/pageviews", cfg.Admin.PageViews)
			protected.GET("/supportqueries-count", cfg.Admin.SupportQueriesCount)
			protected.GET("/supportqueries", cfg.Admin.SupportQueries)
			protected.GET("/chat-users", cfg.Admin.ChatUsers)
			protected.GET("/chat/:userId", cfg.Admin.ChatHistory)
			protected.POST("/chat/:userId", cfg.Admin.SendMessage)
			protected.POST("/upload-contract/:id", cfg.Contract.UploadContract)
			protected.POST("/review-document/:id", cfg.Contract.ReviewDocument)
			protected.POST("/notifications/:id", cfg.Admin.CreateNotification)
		}
	}

	return router
}
