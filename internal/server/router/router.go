package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(webhook *handlers.WebhookHandler, api *handlers.APIHandler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", webhook.Verify)
	r.POST("/webhook", webhook.Receive)
	r.POST("/send-message", webhook.SendMessage)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/units", api.ListUnits)
		v1.POST("/units", api.CreateUnit)
		v1.GET("/units/:id", api.GetUnit)
		v1.PUT("/units/:id", api.UpdateUnit)
		v1.DELETE("/units/:id", api.DeleteUnit)

		v1.GET("/barbers", api.ListBarbers)
		v1.POST("/barbers", api.CreateBarber)
		v1.GET("/barbers/:id", api.GetBarber)
		v1.PUT("/barbers/:id", api.UpdateBarber)
		v1.DELETE("/barbers/:id", api.DeleteBarber)

		v1.GET("/barbers/:id/goals", api.ListGoals)
		v1.GET("/barbers/:id/goals/:year/:month", api.GetGoal)
		v1.PUT("/barbers/:id/goals/:year/:month", api.PutGoal)
		v1.DELETE("/barbers/:id/goals/:year/:month", api.DeleteGoal)

		v1.GET("/barbers/:id/productions", api.ListProductions)
		v1.PUT("/barbers/:id/productions/:date", api.PutProduction)
		v1.DELETE("/barbers/:id/productions/:date", api.DeleteProduction)

		v1.GET("/barbers/:id/dashboard", api.Dashboard)
		v1.GET("/barbers/:id/evolution", api.Evolution)
		v1.GET("/leaderboard", api.Leaderboard)
		v1.GET("/reports/overview", api.Overview)
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
