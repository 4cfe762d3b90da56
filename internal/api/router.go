package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/warbler/warbler/internal/api/handler"
	"github.com/warbler/warbler/internal/api/middleware"
	"github.com/warbler/warbler/internal/core/ports"
	"github.com/warbler/warbler/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP surface is built on.
type Deps struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Messages  ports.MessageService
	Denylist  ports.TokenDenylist
	JWTSecret string

	// Readiness lists the dependencies checked by /health/ready.
	Readiness  map[string]handlers.Pinger
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(httpMetrics(d.Registerer))

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users, d.Messages)
	messageHandler := handler.NewMessageHandler(d.Messages)
	requireAuth := middleware.Auth(d.JWTSecret, d.Denylist)
	self := middleware.SelfOnly("username", d.Users)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Users and the follow graph ---
	users := e.Group("/users")
	users.GET("", userHandler.Search)
	users.GET("/:username", userHandler.Profile)
	users.PATCH("/:username", userHandler.Update, requireAuth, self)
	users.DELETE("/:username", userHandler.Delete, requireAuth, self)
	users.GET("/:username/messages", userHandler.Messages)
	users.GET("/:username/following", userHandler.Following)
	users.GET("/:username/followers", userHandler.Followers)
	users.POST("/:username/follow", userHandler.Follow, requireAuth)
	users.DELETE("/:username/follow", userHandler.Unfollow, requireAuth)

	// --- Messages ---
	e.POST("/messages", messageHandler.Create, requireAuth)
	e.GET("/messages/:id", messageHandler.Get)
	e.DELETE("/messages/:id", messageHandler.Delete, requireAuth)
	e.GET("/timeline", messageHandler.Timeline, requireAuth)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// httpMetrics records request count, latency and sizes per route. The
// scrape endpoint itself is not measured.
func httpMetrics(reg prometheus.Registerer) echo.MiddlewareFunc {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "warbler",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
