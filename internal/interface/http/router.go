package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nyayasetu/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.GET("/languages", handler.Languages)
		api.GET("/categories", handler.Categories)
		api.GET("/examples", handler.Examples)
		api.GET("/trending", handler.Trending)

		api.POST("/answers", handler.Answer)
		api.POST("/answers/voice", handler.AnswerVoice)
		api.POST("/answers/report", handler.AnswerReport)

		api.POST("/speech", handler.Speak)
		api.GET("/audio/:id", handler.Audio)

		api.POST("/feedback", handler.SubmitFeedback)
		api.POST("/auth/login", handler.Login)
	}

	analytics := api.Group("/analytics")
	analytics.Use(authMiddleware(handler.authSvc))
	{
		analytics.GET("/summary", handler.FeedbackSummary)
		analytics.GET("/feedback", handler.RecentFeedback)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
