package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/models"
)

type GormDB struct {
	db     *gorm.DB
	dbType string
}

// NewMySQL opens a MySQL-backed GormDB
func NewMySQL(cfg config.MySQLConfig) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := ping(db); err != nil {
		return nil, err
	}

	return &GormDB{db: db, dbType: "mysql"}, nil
}

// NewPostgres opens a PostgreSQL-backed GormDB
func NewPostgres(cfg config.PostgresConfig) (*GormDB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := ping(db); err != nil {
		return nil, err
	}

	return &GormDB{db: db, dbType: "postgres"}, nil
}

// New opens a GormDB for the configured engine
func New(cfg config.DatabaseConfig) (*GormDB, error) {
	switch cfg.Type {
	case "postgres":
		return NewPostgres(cfg.Postgres)
	case "mysql", "":
		return NewMySQL(cfg.MySQL)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// NewFromDB wraps an existing gorm.DB instance (used by tests)
func NewFromDB(db *gorm.DB, dbType string) *GormDB {
	return &GormDB{db: db, dbType: dbType}
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Lead{},
		&models.LeadInteraction{},
		&models.Customer{},
		&models.Activity{},
		&models.DeleteLog{},
	)
}

// monthExpr returns the engine-specific YYYY-MM expression for created_at
func (gdb *GormDB) monthExpr() string {
	switch gdb.dbType {
	case "postgres":
		return "to_char(created_at, 'YYYY-MM')"
	case "sqlite":
		return "strftime('%Y-%m', created_at)"
	default:
		return "DATE_FORMAT(created_at, '%Y-%m')"
	}
}

// dayExpr returns the engine-specific YYYY-MM-DD expression for created_at
func (gdb *GormDB) dayExpr() string {
	switch gdb.dbType {
	case "postgres":
		return "to_char(created_at, 'YYYY-MM-DD')"
	case "sqlite":
		return "strftime('%Y-%m-%d', created_at)"
	default:
		return "DATE_FORMAT(created_at, '%Y-%m-%d')"
	}
}
