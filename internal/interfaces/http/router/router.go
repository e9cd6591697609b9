// Package router wires the HTTP middleware chain and routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lexia-api/internal/config"
	"lexia-api/internal/interfaces/http/handler"
	"lexia-api/internal/interfaces/http/middleware"
)

// Router is the configured HTTP router.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
}

// New builds the router with the full middleware chain and all routes.
func New(
	cfg *config.Config,
	limiter middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	draftingHandler *handler.DraftingHandler,
	conversationHandler *handler.ConversationHandler,
) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine: engine,
		cfg:    cfg,
	}

	r.setupMiddleware(limiter)
	r.setupRoutes(healthHandler, draftingHandler, conversationHandler)

	return r
}

// Engine returns the gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware installs the middleware chain. Order matters: recovery
// first, then identity and tracing, then auth, then everything that wants
// the authenticated user.
func (r *Router) setupMiddleware(limiter middleware.RateLimiter) {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}))

	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             r.cfg.Security.RateLimit.Burst,
	}, limiter))

	r.engine.Use(middleware.Audit())
}

// setupRoutes registers the system probes and the v1 API.
func (r *Router) setupRoutes(
	healthHandler *handler.HealthHandler,
	draftingHandler *handler.DraftingHandler,
	conversationHandler *handler.ConversationHandler,
) {
	r.engine.GET("/health", healthHandler.Health)
	r.engine.GET("/ready", healthHandler.Ready)
	r.engine.GET("/live", healthHandler.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	RegisterV1Routes(v1, draftingHandler, conversationHandler)
}
