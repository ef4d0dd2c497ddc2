package handler

import (
	"context"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/handler/middleware"
	v1 "github.com/dmehra2102/prod-golang-projects/medscript/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Pinger reports storage reachability for the health endpoint.
type Pinger func(ctx context.Context) error

type RouterDeps struct {
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Tokens   middleware.TokenValidator
	Ping     Pinger
	Services v1.Services
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if d.Config.Tracing.Enabled {
		r.Use(otelgin.Middleware(d.Config.Tracing.ServiceName))
	}
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS(d.Config.CORS))

	r.GET("/healthz", healthz(d.Ping))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.MetricsHandler(d.Gatherer)))
	}

	api := r.Group("/api/v1")
	if d.Config.RateLimit.RequestsPerSecond > 0 {
		api.Use(middleware.RateLimit(middleware.NewIPRateLimiter(d.Config.RateLimit.RequestsPerSecond, d.Config.RateLimit.BurstSize)))
	}
	api.Use(middleware.Auth(d.Tokens, d.Log))

	v1.NewHandler(d.Services, d.Config.Pagination, d.Log).RegisterRoutes(api)

	return r
}

func healthz(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
