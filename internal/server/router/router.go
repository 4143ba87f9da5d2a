package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/metrics"
	"github.com/mamadbah2/smallerp/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. webhook and
// m may be nil, in which case /webhook and /metrics are not served.
func New(handler *handlers.AnalysisHandler, webhook *handlers.WebhookHandler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if webhook != nil {
		r.GET("/webhook", webhook.Verify)
		r.POST("/webhook", webhook.Receive)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/costs", handler.Costs)
		api.GET("/revenue", handler.Revenue)
		api.GET("/portfolio", handler.Portfolio)
		api.GET("/products/:id/profit", handler.ProductProfit)
		api.GET("/products/:id/cost", handler.ProductCost)
		api.GET("/products/:id/margin", handler.ProductMargin)
		api.GET("/overhead", handler.Overhead)
		api.GET("/owners/profit-shares", handler.OwnerShares)
		api.GET("/owners/profit-shares/period", handler.OwnerSharesForPeriod)
		api.GET("/bills/status", handler.Bills)
		api.GET("/trends", handler.Trends)
		api.GET("/reports/export", handler.Export)
		api.GET("/validation", handler.Validation)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
