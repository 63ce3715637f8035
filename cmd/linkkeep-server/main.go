package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/auth"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/config"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/database"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/links"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/metrics"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/redirect"
)

var rootCmd = &cobra.Command{
	Use:   "linkkeep-server",
	Short: "LinkKeep URL-shortening service",
	Long:  "A URL shortener where authenticated users create short codes, track clicks, and manage their own links",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LinkKeep API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Server port (overrides PORT)")
	serveCmd.Flags().String("db-path", "", "Database file path (overrides LINKKEEP_DB_PATH)")
	serveCmd.Flags().String("base-url", "", "Public base URL for short links (overrides LINKKEEP_BASE_URL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("db-path"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", metrics.Handler())

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Links routes (protected)
		linksHandler := links.NewHandler(database.GetDB(), cfg.BaseURL, cfg.StoreTimeout)
		linksHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))
	}

	// Redirect routes (public)
	redirectHandler := redirect.NewHandler(database.GetDB(), cfg.StoreTimeout)
	redirectHandler.RegisterRoutes(r)

	log.Printf("Starting LinkKeep server on :%s", cfg.Port)
	return r.Run(":" + cfg.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
