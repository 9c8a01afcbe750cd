package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acme-storefront/config"
	"acme-storefront/database"
	"acme-storefront/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal().Err(err).Msg("Error loading .env file")
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal().Err(err).Msg("Environment validation failed")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Create default admin user if not exists
	if err := database.CreateDefaultAdmin(db); err != nil {
		log.Warn().Err(err).Msg("Could not create default admin")
	}

	// Seed a demo catalog on an empty database
	if err := database.SeedCatalog(db); err != nil {
		log.Warn().Err(err).Msg("Could not seed catalog")
	}

	// Setup Gin router
	r := gin.Default()

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		log.Warn().Msg("No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, db)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Info().Str("port", port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing database connection")
		} else {
			log.Info().Msg("Database connection closed")
		}
	}

	log.Info().Msg("Server exited gracefully")
}
