package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router mounts.
type Handlers struct {
	Promotions    *handlers.PromotionHandler
	Chessboard    *handlers.ChessboardHandler
	Analytics     *handlers.AnalyticsHandler
	Exports       *handlers.ExportHandler
	Notifications *handlers.NotificationHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	promos := api.Group("/promotions")
	promos.GET("", h.Promotions.List)
	promos.POST("", h.Promotions.Save)
	promos.POST("/bulk/status", h.Promotions.BulkStatus)
	promos.POST("/bulk/period", h.Promotions.BulkPeriod)
	promos.POST("/bulk/delete", h.Promotions.BulkDelete)
	promos.GET("/:id", h.Promotions.Get)
	promos.DELETE("/:id", h.Promotions.Delete)
	promos.POST("/:id/duplicate", h.Promotions.Duplicate)
	promos.POST("/:id/toggle", h.Promotions.Toggle)
	promos.GET("/:id/appearance", h.Promotions.Appearance)
	promos.PUT("/:id/appearance", h.Promotions.SaveAppearance)

	api.POST("/registry/sort", h.Promotions.Sort)
	api.GET("/registry/options", h.Promotions.Options)
	api.PUT("/registry/selection", h.Promotions.Select)

	board := api.Group("/chessboard")
	board.GET("", h.Chessboard.Grid)
	board.POST("/toggle", h.Chessboard.Toggle)
	board.POST("/rect", h.Chessboard.Rect)
	board.POST("/column", h.Chessboard.Column)
	board.POST("/row", h.Chessboard.Row)
	board.POST("/all", h.Chessboard.All)
	board.POST("/clear", h.Chessboard.Clear)
	board.POST("/load", h.Chessboard.Load)

	api.POST("/units/match", h.Chessboard.Match)
	api.GET("/units/:id/price", h.Chessboard.Price)

	api.GET("/analytics", h.Analytics.Report)
	api.POST("/analytics/sort", h.Analytics.Sort)
	api.POST("/analytics/unit", h.Analytics.Unit)
	api.POST("/analytics/range", h.Analytics.Range)

	api.POST("/exports", h.Exports.Start)
	api.GET("/exports", h.Exports.List)
	api.GET("/exports/archive", h.Exports.Archive)
	api.GET("/exports/:id", h.Exports.Get)
	api.GET("/exports/:id/download", h.Exports.Download)

	api.GET("/notifications", h.Notifications.List)
	api.DELETE("/notifications/:id", h.Notifications.Dismiss)

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

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("session", c.GetHeader(handlers.SessionHeader)))
	}
}
