package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminapi "entitlements-app/internal/api/admin"
	authapi "entitlements-app/internal/api/auth"
	"entitlements-app/internal/api/httperr"
	plansapi "entitlements-app/internal/api/plans"
	upgradesapi "entitlements-app/internal/api/upgrades"
	usersapi "entitlements-app/internal/api/users"
	"entitlements-app/internal/app/http/middleware"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/services/accounts"
	upgradesvc "entitlements-app/internal/services/upgrades"
	"entitlements-app/internal/store"
)

// Deps is everything the handlers need; main builds it once.
type Deps struct {
	Store     *store.Store
	Requests  *upgradesvc.RequestService
	Workflow  *upgradesvc.Workflow
	Accounts  *accounts.Service
	JWTSecret string
	TokenTTL  time.Duration
	Google    *authapi.GoogleConfig
	Prices    plansapi.PriceSource
	Now       func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	httperr.SetupValidator()

	authH := &authapi.Handler{Store: d.Store, JWTSecret: d.JWTSecret, TokenTTL: d.TokenTTL, Google: d.Google}
	plansH := &plansapi.Handler{Store: d.Store, Prices: d.Prices}
	usersH := &usersapi.Handler{Accounts: d.Accounts}
	upgradesH := &upgradesapi.Handler{Requests: d.Requests, Workflow: d.Workflow}
	adminH := &adminapi.Handler{Accounts: d.Accounts}

	r.GET("/health", func(c *gin.Context) {
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sanitize := middleware.SanitizeAndCleanInputMiddleware()

	public := r.Group("/")
	public.Use(sanitize)
	public.POST("/register", authH.Register)
	public.POST("/login", authH.Login)
	public.GET("/plans", plansH.ListPlans)
	public.GET("/auth/google", authH.GoogleStart)
	public.GET("/auth/google/callback", authH.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret))
	auth.GET("/me", usersH.GetCurrentUser)
	auth.POST("/change-password", sanitize, authH.ChangePassword)

	// Teachers
	teacher := auth.Group("/")
	teacher.Use(middleware.RequireRole(users.RoleTeacher))
	teacher.GET("/my-pending-request", upgradesH.MyPendingRequest)
	teacher.GET("/upgrade-requests", upgradesH.MyRequests)

	subscribed := teacher.Group("/")
	subscribed.Use(middleware.RequireLiveSubscription(d.Store, d.Now), sanitize)
	subscribed.POST("/upgrade-request", upgradesH.CreateRequest)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.RequireAdmin(), sanitize)
	admin.GET("/pending-requests", upgradesH.PendingRequests)
	admin.POST("/upgrade-request/:id/approve", upgradesH.Approve)
	admin.POST("/upgrade-request/:id/reject", upgradesH.Reject)
	admin.GET("/accounts", adminH.ListAccounts)
	admin.POST("/accounts/:id/approve", adminH.ApproveAccount)
	admin.POST("/plans/sync", plansH.SyncPlansFromStripe)
}
