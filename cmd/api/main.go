package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/catalog"
	"real-estate-marketplace/internal/cleanup"
	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/handlers"
	"real-estate-marketplace/internal/leads"
	"real-estate-marketplace/internal/ratelimit"
	"real-estate-marketplace/internal/scheduler"
	"real-estate-marketplace/internal/search"
)

func main() {
	// Load .env for local development; ignore when absent
	_ = godotenv.Load()

	configPath := getEnv("CONFIG_PATH", "configs/marketplace.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}
	applyEnvOverrides(appConfig)

	// Initialize database
	db, err := database.New(appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Printf("Database ready (%s)", appConfig.Database.Type)

	// Initialize Meilisearch side index when enabled
	var searchClient *search.SearchClient
	if appConfig.Search.Meilisearch.Enabled {
		searchClient = search.NewSearchClient(
			appConfig.Search.Meilisearch.Host,
			appConfig.Search.Meilisearch.APIKey,
		)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search index disabled, text search served from SQL")
	}

	// Activity recorder and services
	recorder := activity.NewRecorder(db,
		appConfig.Activity.QueueSize,
		appConfig.Activity.BatchSize,
		appConfig.Activity.GetFlushInterval(),
	)
	recorder.Start()
	defer recorder.Stop()

	activitySvc := activity.NewService(db, recorder)
	catalogSvc := catalog.NewService(db, searchClient, activitySvc)
	leadSvc := leads.NewService(db, activitySvc)
	customerSvc := leads.NewCustomerService(db, activitySvc)
	cleanupSvc := cleanup.NewService(db)

	intakeLimiter := ratelimit.NewLimiter(
		appConfig.Intake.RequestsPerMinute,
		appConfig.Intake.RequestsPerHour,
		appConfig.Intake.RateLimitEnabled,
	)

	// Nightly retention job
	appScheduler := scheduler.NewScheduler(cleanupSvc, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	if appConfig.Logging.LogRequests {
		r.Use(handlers.RequestLogger())
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: appConfig.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type",
			handlers.HeaderUserID, handlers.HeaderUserRole, handlers.HeaderUserName, handlers.HeaderSession},
		AllowCredentials: true,
	}))

	propertyHandler := handlers.NewPropertyHandler(catalogSvc)
	leadHandler := handlers.NewLeadHandler(leadSvc)
	customerHandler := handlers.NewCustomerHandler(customerSvc)
	analyticsHandler := handlers.NewAnalyticsHandler(activitySvc)
	adminHandler := handlers.NewAdminHandler(db, catalogSvc, leadSvc, activitySvc, cleanupSvc, appConfig.Cleanup)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"time":     time.Now(),
			"recorder": activitySvc.RecorderStats(),
			"intake":   intakeLimiter.GetStats(),
		})
	})

	api := r.Group("/api")
	{
		// Public catalog
		api.GET("/properties", propertyHandler.SearchProperties)
		api.GET("/properties/featured", propertyHandler.GetFeatured)
		api.GET("/properties/nearby", propertyHandler.GetNearby)
		api.GET("/properties/search", propertyHandler.TextSearch)
		api.GET("/properties/facets", propertyHandler.GetSearchFacets)
		api.GET("/properties/:id", propertyHandler.GetProperty)

		// Listing management
		api.POST("/properties", propertyHandler.CreateProperty)
		api.PUT("/properties/:id", propertyHandler.UpdateProperty)
		api.DELETE("/properties/:id", propertyHandler.DeleteProperty)
		api.PATCH("/properties/:id/publish", propertyHandler.PublishProperty)
		api.PATCH("/properties/:id/archive", propertyHandler.ArchiveProperty)
		api.PATCH("/properties/:id/draft", propertyHandler.DraftProperty)
		api.PATCH("/properties/:id/toggle-status", propertyHandler.ToggleStatus)
		api.PATCH("/properties/:id/featured", propertyHandler.SetFeatured)
		api.GET("/manage/properties", propertyHandler.ManageProperties)
		api.GET("/users/:id/properties", propertyHandler.OwnerProperties)

		// Lead pipeline
		api.POST("/leads", handlers.IntakeRateLimit(intakeLimiter), leadHandler.CreateLead)
		api.GET("/leads", leadHandler.ListLeads)
		api.GET("/leads/follow-ups/upcoming", leadHandler.UpcomingFollowUps)
		api.GET("/leads/follow-ups/overdue", leadHandler.OverdueFollowUps)
		api.GET("/leads/stats", leadHandler.LeadStats)
		api.GET("/leads/funnel", leadHandler.LeadFunnel)
		api.GET("/leads/:id", leadHandler.GetLead)
		api.PUT("/leads/:id", leadHandler.UpdateLead)
		api.DELETE("/leads/:id", leadHandler.DeleteLead)
		api.PATCH("/leads/:id/assign", leadHandler.AssignLead)
		api.POST("/leads/:id/interactions", leadHandler.AddInteraction)
		api.POST("/leads/:id/convert", leadHandler.ConvertLead)

		// Customers
		api.POST("/customers", customerHandler.CreateCustomer)
		api.GET("/customers", customerHandler.ListCustomers)
		api.GET("/customers/:id", customerHandler.GetCustomer)
		api.PUT("/customers/:id", customerHandler.UpdateCustomer)
		api.PATCH("/customers/:id/preferences", customerHandler.UpdatePreferences)
		api.DELETE("/customers/:id", customerHandler.DeleteCustomer)

		// Client-side event intake
		api.POST("/activities", handlers.IntakeRateLimit(intakeLimiter), analyticsHandler.TrackEvent)
	}

	analytics := r.Group("/api/analytics", handlers.RequireAdmin())
	{
		analytics.GET("/activities", analyticsHandler.ListActivities)
		analytics.GET("/popular-properties", analyticsHandler.PopularProperties)
		analytics.GET("/searches", analyticsHandler.SearchAnalytics)
		analytics.GET("/daily", analyticsHandler.DailyStats)
		analytics.GET("/engagement", analyticsHandler.UserEngagement)
		analytics.GET("/types", analyticsHandler.TypeBreakdown)
	}

	admin := r.Group("/api/admin", handlers.RequireAdmin())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.POST("/cleanup/run", adminHandler.RunCleanup)
		admin.GET("/cleanup/logs", adminHandler.GetDeleteLogs)
		admin.POST("/search/reindex", adminHandler.Reindex)
	}

	port := appConfig.Server.Port
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the recorder
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	if err := srv.Close(); err != nil {
		log.Printf("Server close error: %v", err)
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.Database.Type = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.MySQL.Host = v
		cfg.Database.Postgres.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.MySQL.Port = p
			cfg.Database.Postgres.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.MySQL.User = v
		cfg.Database.Postgres.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.MySQL.Password = v
		cfg.Database.Postgres.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.MySQL.Database = v
		cfg.Database.Postgres.Database = v
	}
	if v := os.Getenv("MEILISEARCH_HOST"); v != "" {
		cfg.Search.Meilisearch.Enabled = true
		cfg.Search.Meilisearch.Host = v
	}
	if v := os.Getenv("MEILISEARCH_KEY"); v != "" {
		cfg.Search.Meilisearch.APIKey = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
