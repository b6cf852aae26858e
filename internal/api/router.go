package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tempoworks/timesheet-system/docs"
	"github.com/tempoworks/timesheet-system/internal/api/handler"
	"github.com/tempoworks/timesheet-system/internal/api/middleware"
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
	"github.com/tempoworks/timesheet-system/internal/core/service"
	mongorepo "github.com/tempoworks/timesheet-system/internal/infrastructure/db/mongo"
	redislock "github.com/tempoworks/timesheet-system/internal/infrastructure/db/redis"
	"github.com/tempoworks/timesheet-system/internal/infrastructure/security"
)

// Options carries the settings the router needs to wire its dependencies.
type Options struct {
	JWTSecret  string
	TokenTTL   time.Duration
	LockTTL    time.Duration
	BcryptCost int
	Logger     zerolog.Logger
	// Registerer receives the HTTP request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Projects   *handler.ProjectHandler
	Timesheets *handler.TimesheetHandler
	Metrics    *handler.MetricsHandler
	Health     *handler.HealthHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options) *echo.Echo {
	component := func(name string) zerolog.Logger {
		return opts.Logger.With().Str("component", name).Logger()
	}

	// --- Dependencies ---
	users := mongorepo.NewUserRepository(db)
	projects := mongorepo.NewProjectRepository(db)
	timesheets := mongorepo.NewTimesheetRepository(db)
	lock := redislock.NewSubmissionLock(rdb, opts.LockTTL)
	hasher := security.NewBcryptHasher(opts.BcryptCost)
	tokens := security.NewJWTManager(opts.JWTSecret, opts.TokenTTL)

	authService := service.NewAuthService(users, hasher, tokens, component("auth"))
	userService := service.NewUserService(users, projects, timesheets, hasher, component("users"))
	projectService := service.NewProjectService(projects, users, timesheets, component("projects"))
	timesheetService := service.NewTimesheetService(timesheets, projects, users, lock, component("timesheets"))
	metricsService := service.NewMetricsService(projectService, userService, component("metrics"))

	h := Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService),
		Projects:   handler.NewProjectHandler(projectService),
		Timesheets: handler.NewTimesheetHandler(timesheetService),
		Metrics:    handler.NewMetricsHandler(metricsService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"mongodb": func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}),
	}

	e := New(opts.Logger, opts.Registerer)
	Register(e, h, tokens)
	return e
}

// New returns an Echo instance with the global middleware, validator and
// error handler installed.
func New(log zerolog.Logger, reg prometheus.Registerer) *echo.Echo {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "timesheet_http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	return e
}

// Register mounts every route on e. Authenticated groups verify tokens with verifier.
func Register(e *echo.Echo, h Handlers, verifier ports.TokenVerifier) {
	auth := middleware.Auth(verifier)
	admin := middleware.RBAC(domain.RoleAdmin)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleUser)
	userOnly := middleware.RBAC(domain.RoleUser)

	// --- Probes, metrics and docs (no auth required) ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	// --- Users ---
	users := api.Group("/users", auth, admin)
	users.POST("", h.Users.Create)
	users.GET("", h.Users.List)
	users.GET("/stats/weekly", h.Users.WeeklyStats)
	users.GET("/:id", h.Users.Get)
	users.DELETE("/:id", h.Users.Delete)

	// --- Projects ---
	projects := api.Group("/projects", auth)
	projects.POST("", h.Projects.Create, admin)
	projects.GET("", h.Projects.List, anyRole)
	projects.GET("/stats", h.Projects.Stats, anyRole)
	projects.GET("/:id", h.Projects.Get, anyRole)
	projects.POST("/:id/users", h.Projects.AssignUsers, admin)
	projects.PATCH("/:id/status", h.Projects.UpdateStatus, admin)

	// --- Timesheets ---
	timesheets := api.Group("/timesheets", auth)
	timesheets.POST("", h.Timesheets.Submit, userOnly)
	timesheets.GET("/stats/summary", h.Timesheets.Stats, admin)
	timesheets.GET("/users/:userId", h.Timesheets.UserTimesheets, anyRole)
	timesheets.GET("/projects/:projectId", h.Timesheets.ProjectTimesheets, admin)
	timesheets.GET("/:id", h.Timesheets.Get, anyRole)
	timesheets.PATCH("/:id/approve", h.Timesheets.Approve, admin)
	timesheets.PATCH("/:id/reject", h.Timesheets.Reject, admin)

	// --- Metrics ---
	reports := api.Group("/metrics", auth, admin)
	reports.GET("/dashboard", h.Metrics.Dashboard)
	reports.POST("/publish", h.Metrics.Publish)
}
