package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/roletapro/roleta-client/docs" // swagger docs
	"github.com/roletapro/roleta-client/internal/api/handler"
	"github.com/roletapro/roleta-client/internal/api/middleware"
	"github.com/roletapro/roleta-client/internal/core/ports"
)

// Deps carries what the relay routes need. Redis and Mongo are optional and
// only feed the readiness probe. A nil Registry selects the default
// Prometheus registry. When OpsSecret is set, /metrics and /swagger require a
// bearer token signed with it.
type Deps struct {
	Webhooks  ports.WebhookService
	Probe     handler.ProbeReader
	Redis     *redis.Client
	Mongo     *mongo.Database
	Registry  *prometheus.Registry
	OpsSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	promConfig := echoprometheus.MiddlewareConfig{Subsystem: "roleta_relay"}
	metricsConfig := echoprometheus.HandlerConfig{}
	if deps.Registry != nil {
		promConfig.Registerer = deps.Registry
		metricsConfig.Gatherer = deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig))

	// --- Webhooks ---
	webhookHandler := handler.NewWebhookHandler(deps.Webhooks)
	e.POST("/webhooks/stripe", webhookHandler.Stripe)

	// --- Health probes ---
	var checks []handler.Dependency
	if deps.Redis != nil {
		rdb := deps.Redis
		checks = append(checks, handler.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	if deps.Mongo != nil {
		db := deps.Mongo
		checks = append(checks, handler.Dependency{Name: "mongodb", Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		}})
	}
	healthHandler := handler.NewHealthHandler(deps.Probe, checks...)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – is the backend reachable?

	// --- Ops ---
	var opsGuard []echo.MiddlewareFunc
	if deps.OpsSecret != "" {
		opsGuard = append(opsGuard, middleware.OpsAuth(deps.OpsSecret))
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(metricsConfig), opsGuard...)
	e.GET("/swagger/*", echoSwagger.WrapHandler, opsGuard...)

	return e
}
