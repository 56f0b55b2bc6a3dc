package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(nil),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/trip", handler.Trip)
		api.GET("/trip/info", handler.TripInfo)
		api.GET("/trip/export", handler.Export)
		api.POST("/trip/import", handler.Import)

		api.GET("/schedule", handler.Schedule)
		api.GET("/schedule/:dayId", handler.ScheduleDay)
		api.POST("/schedule/:dayId/items", handler.AddScheduleItem)
		api.PUT("/schedule/:dayId/items/:itemId", handler.UpdateScheduleItem)
		api.DELETE("/schedule/:dayId/items/:itemId", handler.DeleteScheduleItem)
		api.POST("/schedule/:dayId/items/:itemId/move", handler.MoveScheduleItem)
		api.GET("/schedule/:dayId/transit", handler.TransitStatuses)
		api.POST("/schedule/:dayId/items/:itemId/transit/retry", handler.RetryTransit)

		api.GET("/expenses", handler.Expenses)
		api.GET("/expenses/summary", handler.ExpenseSummary)
		api.POST("/expenses", handler.AddExpense)
		api.PUT("/expenses/:id", handler.UpdateExpense)
		api.DELETE("/expenses/:id", handler.DeleteExpense)
		api.POST("/expenses/scan", handler.ScanReceipt)

		api.GET("/shopping", handler.ShoppingList)
		api.POST("/shopping", handler.AddShoppingItem)
		api.POST("/shopping/:id/toggle", handler.ToggleShoppingItem)
		api.DELETE("/shopping/:id", handler.DeleteShoppingItem)

		api.GET("/rate", handler.ExchangeRate)

		api.POST("/photos", handler.UploadPhoto)
		api.GET("/photos/:key", handler.Photo)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
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
