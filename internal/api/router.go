package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/i18n"       // Localizer
	"invest_platform/internal/market"     // Favorites
	"invest_platform/internal/metrics"    // Prometheus collectors
	"invest_platform/internal/middleware" // Auth, admin and locale guards
	"invest_platform/internal/service"    // Services

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Gatherer
	"github.com/prometheus/client_golang/prometheus/promhttp" // /metrics handler
)

// Deps are the services the router wires into handlers
type Deps struct {
	Auth      *service.Auth
	Workflow  *service.Workflow
	Review    *service.Review
	Dashboard *service.Dashboard
	Favorites *market.Favorites
	Relay     TelegramRelay // nil leaves the relay route unmounted
	Localizer *i18n.Localizer
	Metrics   *metrics.Metrics    // nil disables request metrics
	Gatherer  prometheus.Gatherer // Served on /metrics when set
	Trusted   []string            // Trusted proxies
}

// NewRouter builds the HTTP API
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.Trusted); err != nil {
		return nil, err
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(middleware.LocaleMiddleware(d.Localizer))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.JWTAuthMiddleware(d.Auth, d.Localizer)

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/signup", SignUpHandler(d.Auth, d.Localizer))
	authGroup.POST("/signin", SignInHandler(d.Auth, d.Localizer))
	authGroup.POST("/signout", requireAuth, SignOutHandler(d.Auth, d.Localizer))
	authGroup.GET("/me", requireAuth, MeHandler(d.Auth, d.Review, d.Localizer))

	r.GET("/deposit/addresses", DepositAddressesHandler(d.Workflow))

	// Transaction routes (protected by JWT)
	txGroup := r.Group("/transactions")
	txGroup.Use(requireAuth)
	txGroup.POST("/deposit", DepositHandler(d.Workflow, d.Localizer))
	txGroup.POST("/withdrawal", WithdrawalHandler(d.Workflow, d.Localizer))
	txGroup.GET("", HistoryHandler(d.Workflow, d.Localizer))

	r.GET("/dashboard", requireAuth, DashboardHandler(d.Dashboard, d.Localizer))

	// Admin routes (protected, admin only; the service checks the role again)
	adminGroup := r.Group("/admin")
	adminGroup.Use(requireAuth, middleware.AdminOnlyMiddleware(d.Review, d.Localizer))
	adminGroup.GET("/transactions", ListTransactionsHandler(d.Review, d.Localizer))
	adminGroup.POST("/transactions/:id/approve", ApproveHandler(d.Review, d.Localizer))
	adminGroup.POST("/transactions/:id/reject", RejectHandler(d.Review, d.Localizer))

	// Market routes, favorites need a session
	marketGroup := r.Group("/market")
	marketGroup.GET("", MarketHandler())
	marketGroup.POST("/quote", QuoteHandler(d.Localizer))
	if d.Favorites != nil {
		marketGroup.GET("/favorites", requireAuth, FavoritesHandler(d.Favorites, d.Localizer))
		marketGroup.POST("/favorites/:symbol", requireAuth, ToggleFavoriteHandler(d.Favorites, d.Localizer))
	}

	if d.Relay != nil {
		MountRelay(r, d.Relay, d.Metrics)
	}
	return r, nil
}

// MountRelay adds the notification relay route with open CORS
func MountRelay(r gin.IRouter, relay TelegramRelay, m *metrics.Metrics) {
	g := r.Group("", RelayCORS())
	g.POST(RelayPath, RelayHandler(relay, m))
	g.OPTIONS(RelayPath, func(c *gin.Context) { c.Status(http.StatusOK) })
}
