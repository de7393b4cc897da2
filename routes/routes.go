package routes

import (
	"crypto_stats_backend/controllers"
	"crypto_stats_backend/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, client services.MarketDataClient, store services.SnapshotStore) {
	statsService := services.NewCoinStatsService(client, store)
	coinController := controllers.NewCoinController(statsService)

	api := router.Group("/api")
	{
		api.GET("/stats", coinController.GetStats)
		api.GET("/deviation", coinController.GetDeviation)
	}
}
