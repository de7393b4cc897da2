package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"crypto_stats_backend/config"
	"crypto_stats_backend/routes"
	"crypto_stats_backend/scheduler"
	"crypto_stats_backend/services"
	"crypto_stats_backend/services/datafetcher"

	"github.com/gin-gonic/gin"
)

// activeStore tracks the snapshot store once background initialization
// succeeds, so the /ready endpoint can check connectivity dynamically
var activeStore services.SnapshotStore
var storeMutex sync.RWMutex

func main() {
	log.Println("==============================================")
	log.Println("  Crypto Stats Backend - Starting...")
	log.Println("==============================================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Config load issue: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middlewares
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger())

	// Setup health check endpoints FIRST so the platform can detect
	// the service is up; the store is initialized in background
	setupHealthEndpoints(router)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	// Start server immediately
	go func() {
		log.Printf("Server listening on 0.0.0.0:%s", cfg.Port)
		log.Println("==============================================")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Initialize the store, routes and scheduler in background
	var jobScheduler *scheduler.Scheduler
	go func() {
		store, err := services.NewSnapshotStore(cfg)
		if err != nil {
			log.Printf("ERROR: Snapshot store initialization failed: %v", err)
			log.Println("Service will continue in limited mode (health check only)")
			return
		}

		storeMutex.Lock()
		activeStore = store
		storeMutex.Unlock()

		client := services.NewCoinGeckoClient(cfg.CoinGeckoBaseURL)

		// Setup API routes
		routes.SetupRoutes(router, client, store)

		// Start background scheduler for the ingestion job
		fetcher := datafetcher.NewCoinFetcher(client, store)
		jobScheduler = scheduler.NewScheduler(fetcher, cfg.FetchIntervalHours)
		go jobScheduler.Start()

		log.Println("Application fully initialized with snapshot store")
	}()

	// Graceful shutdown
	gracefulShutdown(server, jobScheduler)
}

// setupHealthEndpoints sets up health check endpoints
func setupHealthEndpoints(router *gin.Engine) {
	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Backend is up and running!",
		})
	})

	// Liveness probe - always returns OK if server is running
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Readiness probe - checks if service is ready to receive traffic
	router.GET("/ready", func(c *gin.Context) {
		storeMutex.RLock()
		store := activeStore
		storeMutex.RUnlock()

		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Snapshot store not connected",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Snapshot store ping failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	})
}

// corsMiddleware returns a CORS middleware handler
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Requested-With")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger returns a request logging middleware
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for health checks to reduce noise
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Printf("%s %s %d %v", c.Request.Method, path, c.Writer.Status(), duration)
	}
}

// gracefulShutdown handles graceful shutdown of the server
func gracefulShutdown(server *http.Server, jobScheduler *scheduler.Scheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-quit
	log.Printf("Received signal %v, shutting down gracefully...", sig)

	// Stop scheduler first so no ingestion run starts mid-shutdown
	if jobScheduler != nil {
		jobScheduler.Stop()
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Close the snapshot store
	storeMutex.RLock()
	store := activeStore
	storeMutex.RUnlock()
	if store != nil {
		if err := store.Close(ctx); err != nil {
			log.Printf("Error closing snapshot store: %v", err)
		} else {
			log.Println("Snapshot store closed")
		}
	}

	log.Println("Server shutdown completed")
}
