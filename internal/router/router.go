package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	adminHandler "github.com/medicore/hospital-api/internal/handler/admin"
	authHandler "github.com/medicore/hospital-api/internal/handler/auth"
	doctorHandler "github.com/medicore/hospital-api/internal/handler/doctor"
	healthHandler "github.com/medicore/hospital-api/internal/handler/health"
	notificationHandler "github.com/medicore/hospital-api/internal/handler/notification"
	overviewHandler "github.com/medicore/hospital-api/internal/handler/overview"
	patientHandler "github.com/medicore/hospital-api/internal/handler/patient"
	"github.com/medicore/hospital-api/internal/middleware"
	"github.com/medicore/hospital-api/internal/model"
)

const overviewCacheTTL = 60 * time.Second

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	healthH   *healthHandler.Handler
	authH     *authHandler.Handler
	patientH  *patientHandler.Handler
	doctorH   *doctorHandler.Handler
	adminH    *adminHandler.Handler
	overviewH *overviewHandler.Handler
	notifH    *notificationHandler.Handler
	metrics   *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH *healthHandler.Handler,
	authH *authHandler.Handler,
	patientH *patientHandler.Handler,
	doctorH *doctorHandler.Handler,
	adminH *adminHandler.Handler,
	overviewH *overviewHandler.Handler,
	notifH *notificationHandler.Handler,
	log *zerolog.Logger,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		healthH:   healthH,
		authH:     authH,
		patientH:  patientH,
		doctorH:   doctorH,
		adminH:    adminH,
		overviewH: overviewH,
		notifH:    notifH,
		metrics:   initRouterMetrics("hospital_api"),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	r.authH.RegisterRoutes(api.Group("/auth"))

	// Public overview behind a short-lived response cache.
	overviewCache := middleware.NewResponseCache(overviewCacheTTL)
	public := api.Group("/dashboard")
	public.Use(overviewCache.Cache())
	r.overviewH.RegisterRoutes(public)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	// Any authenticated role may stream its own notifications.
	r.notifH.RegisterRoutes(protected.Group("/notifications"))

	patient := protected.Group("/dashboard/patient")
	patient.Use(r.auth.RequireRole(model.RolePatient))
	r.patientH.RegisterRoutes(patient)

	doctor := protected.Group("/dashboard/doctor")
	doctor.Use(r.auth.RequireRole(model.RoleDoctor))
	r.doctorH.RegisterRoutes(doctor)

	adminDash := protected.Group("/dashboard/admin")
	adminDash.Use(r.auth.RequireRole(model.RoleAdmin))
	r.adminH.RegisterDashboard(adminDash)

	admin := protected.Group("/admin")
	admin.Use(r.auth.RequireRole(model.RoleAdmin))
	r.adminH.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
