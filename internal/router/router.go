package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medicore/hms-api/internal/handler/appointment"
	"github.com/medicore/hms-api/internal/handler/auth"
	"github.com/medicore/hms-api/internal/handler/department"
	"github.com/medicore/hms-api/internal/handler/doctor"
	"github.com/medicore/hms-api/internal/handler/health"
	"github.com/medicore/hms-api/internal/handler/hospital"
	"github.com/medicore/hms-api/internal/handler/patient"
	"github.com/medicore/hms-api/internal/handler/visit"
	"github.com/medicore/hms-api/internal/middleware"
	"github.com/medicore/hms-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Handlers struct {
	Auth        *auth.Handler
	Health      *health.Handler
	Hospital    *hospital.Handler
	Department  *department.Handler
	Doctor      *doctor.Handler
	Patient     *patient.Handler
	Appointment *appointment.Handler
	Visit       *visit.Handler
}

type Config struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	Timeout       time.Duration
	MetricsPrefix string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(authMw *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	middleware.RegisterValidators()

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     authMw,
		handlers: handlers,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	if config.Timeout == 0 {
		config.Timeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)

	// Public surface: portal sign-in plus the OTP registration flow,
	// which proves identity with the code instead of a session
	r.handlers.Auth.RegisterRoutes(api)
	r.handlers.Patient.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	// Roster reads serve both portals and the booking dropdowns
	r.handlers.Hospital.RegisterRoutes(protected)

	adminOnly := protected.Group("")
	adminOnly.Use(r.auth.RequireRole(model.RoleAdmin))
	{
		r.handlers.Department.RegisterRoutes(adminOnly)
		r.handlers.Doctor.RegisterRoutes(adminOnly)
	}

	staff := protected.Group("")
	staff.Use(r.auth.RequireRole(model.RoleAdmin, model.RoleDoctor))
	{
		r.handlers.Patient.RegisterRoutes(staff)
		r.handlers.Appointment.RegisterRoutes(staff)
	}

	doctorOnly := protected.Group("")
	doctorOnly.Use(r.auth.RequireRole(model.RoleDoctor))
	{
		r.handlers.Visit.RegisterRoutes(doctorOnly)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "hms"
	}
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
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
