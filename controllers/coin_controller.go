package controllers

import (
	"errors"
	"log"
	"net/http"

	"crypto_stats_backend/services"

	"github.com/gin-gonic/gin"
)

// CoinController handles the public stats and deviation endpoints.
type CoinController struct {
	stats *services.CoinStatsService
}

// NewCoinController creates a new coin controller
func NewCoinController(stats *services.CoinStatsService) *CoinController {
	return &CoinController{stats: stats}
}

type coinRequest struct {
	Coin string `json:"coin" form:"coin"`
}

// coinParam reads the coin ID from the query string, falling back to
// a JSON body. GET-with-body clients exist and are still served.
func coinParam(c *gin.Context) string {
	if coin := c.Query("coin"); coin != "" {
		return coin
	}
	var req coinRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.Coin
	}
	return ""
}

// GetStats returns live market data for one coin.
// GET /api/stats
func (cc *CoinController) GetStats(c *gin.Context) {
	coin := coinParam(c)
	if coin == "" {
		log.Println("Missing coin parameter in stats request")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Coin is required"})
		return
	}

	log.Printf("Stats request received for coin: %s", coin)

	stats, err := cc.stats.Stats(c.Request.Context(), coin)
	if err != nil {
		var fetchErr *services.FetchError
		if errors.As(err, &fetchErr) {
			log.Printf("Error fetching data from CoinGecko API for coin %s: %v", coin, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Error fetching data from CoinGecko API"})
			return
		}
		log.Printf("Error processing stats request for coin %s: %v", coin, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	log.Printf("Stats request processed successfully for coin: %s", coin)
	c.JSON(http.StatusOK, stats)
}

// GetDeviation returns the standard deviation of the stored prices
// for one supported coin, formatted with two decimal places.
// GET /api/deviation
func (cc *CoinController) GetDeviation(c *gin.Context) {
	coin := coinParam(c)

	log.Printf("Deviation request received for coin: %s", coin)

	deviation, err := cc.stats.Deviation(c.Request.Context(), coin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCoin):
			log.Println("Invalid or missing coin parameter in deviation request")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing coin parameter."})
		case errors.Is(err, services.ErrNoRecords):
			log.Printf("No records found for coin: %s", coin)
			c.JSON(http.StatusNotFound, gin.H{"error": "No records found for the requested coin."})
		default:
			log.Printf("Error processing deviation request for coin %s: %v", coin, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching data."})
		}
		return
	}

	log.Printf("Deviation calculated successfully for coin: %s", coin)
	c.JSON(http.StatusOK, gin.H{"deviation": deviation.StringFixed(2)})
}
