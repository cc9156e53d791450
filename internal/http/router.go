package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tidyops/cleanhub/internal/auth"
	"github.com/tidyops/cleanhub/internal/bookings"
	"github.com/tidyops/cleanhub/internal/cache"
	"github.com/tidyops/cleanhub/internal/catalog"
	"github.com/tidyops/cleanhub/internal/config"
	"github.com/tidyops/cleanhub/internal/directory"
	"github.com/tidyops/cleanhub/internal/domain/user"
	"github.com/tidyops/cleanhub/internal/http/handlers"
	"github.com/tidyops/cleanhub/internal/http/middlewares"
	"github.com/tidyops/cleanhub/internal/observability"
	"github.com/tidyops/cleanhub/internal/reset"
	"github.com/tidyops/cleanhub/internal/session"
)

type RouterDeps struct {
	Cfg      config.Config
	Dir      *directory.Directory
	Session  *session.Holder
	Catalog  *catalog.Catalog
	Engine   *bookings.Engine
	Resetter *reset.Resetter
	JWT      *auth.Manager
	Metrics  *observability.Prom
	PromReg  *prometheus.Registry
	Ping     func() error
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("cleanhub"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.GinHandleMiddleware())
	}

	// health + metrics
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.PromReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.PromReg, promhttp.HandlerOpts{})))
	}

	// wire up handlers
	authHandler := handlers.NewAuthHandler(deps.Dir, deps.Session, deps.JWT, deps.Metrics)
	bookingsHandler := handlers.NewBookingsHandler(deps.Engine, deps.Session, deps.Metrics)
	servicesHandler := handlers.NewServicesHandler(deps.Catalog, cache.New(30*time.Second))
	adminHandler := handlers.NewAdminHandler(deps.Resetter, deps.Dir)

	authMw := middlewares.NewAuthMiddleware(deps.JWT)

	// auth, rate limited to slow down credential guessing
	limiter := middlewares.NewRateLimiter(20, time.Minute)

	authGroup := r.Group("/auth")
	authGroup.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", authHandler.Me)
	}

	r.GET("/services", servicesHandler.List)

	booked := r.Group("/bookings")
	booked.Use(authMw.RequireAuth())
	{
		booked.POST("", authMw.RequireRole(user.RoleCustomer), bookingsHandler.Create)
		booked.GET("/mine", authMw.RequireRole(user.RoleCustomer), bookingsHandler.Mine)
		booked.GET("", authMw.RequireRole(user.RoleStaff), bookingsHandler.ListAll)
		booked.GET("/:id", bookingsHandler.Get)
		booked.PATCH("/:id", authMw.RequireRole(user.RoleCustomer), bookingsHandler.UpdateFields)
		booked.PATCH("/:id/status", authMw.RequireRole(user.RoleStaff), bookingsHandler.UpdateStatus)
	}

	admin := r.Group("/admin")
	admin.Use(authMw.RequireAuth())
	{
		admin.POST("/reset/bookings", adminHandler.ResetBookings)
		admin.POST("/reset/all", authMw.RequireRole(user.RoleStaff), adminHandler.ResetAll)
		admin.GET("/users", authMw.RequireRole(user.RoleStaff), adminHandler.ListUsers)
	}

	return r
}
