// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopfront/api/database"
	"shopfront/api/handlers"
	"shopfront/api/middleware"
	"shopfront/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (users + catalog) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (analytics events) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	merchStore := store.NewMerchStore(dbClient.DB)
	analyticsStore := store.NewAnalyticsStore(chClient)

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	merchHandlers := handlers.NewMerchHandlers(merchStore)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Storefront endpoints: shoppers are anonymous sessions, so the
		// catalog and the collector require no authentication.
		api.GET("/get-merch", merchHandlers.GetMerch)
		api.POST("/post-event", analyticsHandlers.PostEvent)

		// Authentication endpoints for the stats dashboard.
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Protected routes (require a valid JWT token).
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			statsGroup := protected.Group("/stats")
			{
				statsGroup.GET("/event-counts", analyticsHandlers.GetEventCountsOverTime)
				statsGroup.GET("/unique-sessions", analyticsHandlers.GetUniqueSessionsOverTime)
				statsGroup.GET("/top-actions", analyticsHandlers.GetTopActions)
				statsGroup.GET("/conversion-revenue", analyticsHandlers.GetConversionRevenue)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Shopfront API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Shopfront API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
