package main

import (
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
)

// provision creates or updates the initial admin account. Safe to run
// repeatedly: an existing account is promoted, never duplicated.
func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", getEnv("CONFIG_PATH", "configs/marketplace.yaml"), "path to config file")
		email      = flag.String("email", getEnv("ADMIN_EMAIL", ""), "admin email")
		name       = flag.String("name", getEnv("ADMIN_NAME", "Administrator"), "admin display name")
	)
	flag.Parse()

	if *email == "" {
		log.Fatal("Provision: admin email is required (-email or ADMIN_EMAIL)")
	}

	appConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Provision: Failed to load config: %v", err)
	}

	db, err := database.New(appConfig.Database)
	if err != nil {
		log.Fatalf("Provision: Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Provision: Failed to initialize schema: %v", err)
	}

	existing, err := db.GetUserByEmail(*email)
	if err != nil {
		log.Fatalf("Provision: Lookup failed: %v", err)
	}

	if existing != nil {
		if existing.Role == models.RoleAdmin {
			log.Printf("Provision: Admin %s already exists (id=%s), nothing to do", *email, existing.ID)
			return
		}
		existing.Role = models.RoleAdmin
		if err := db.SaveUser(existing); err != nil {
			log.Fatalf("Provision: Failed to promote user: %v", err)
		}
		log.Printf("Provision: Promoted %s to admin (id=%s)", *email, existing.ID)
		return
	}

	admin := &models.User{
		ID:    uuid.NewString(),
		Name:  *name,
		Email: *email,
		Role:  models.RoleAdmin,
	}
	if err := db.CreateUser(admin); err != nil {
		log.Fatalf("Provision: Failed to create admin: %v", err)
	}
	log.Printf("Provision: Created admin %s (id=%s)", *email, admin.ID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
