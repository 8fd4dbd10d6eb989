package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"labels-service/internal/clients/woocommerce"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Label store
	LabelStoreDir string

	// Remote catalog
	CatalogBaseURL string
	ConsumerKey    string
	ConsumerSecret string

	// Catalog sync behavior toggles
	EnforceManageStock  bool
	RequireRowSelection bool
	ValidateIDAsInteger bool

	// Audit database (optional - auditing is disabled when DBHost is empty)
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	return &Config{
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		LabelStoreDir: getEnv("LABEL_STORE_DIR", "./labels"),

		CatalogBaseURL: getEnv("WC_API_URL", woocommerce.DefaultBaseURL),
		ConsumerKey:    getEnv("WC_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("WC_CONSUMER_SECRET", ""),

		EnforceManageStock:  getEnv("ENFORCE_MANAGE_STOCK", "true") == "true",
		RequireRowSelection: getEnv("REQUIRE_ROW_SELECTION", "true") == "true",
		ValidateIDAsInteger: getEnv("VALIDATE_ID_AS_INTEGER", "true") == "true",

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "labels_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// Validate checks the fatal startup preconditions. Missing catalog
// credentials halt the service before anything is served.
func (c *Config) Validate() error {
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return fmt.Errorf("catalog credentials are missing: set WC_CONSUMER_KEY and WC_CONSUMER_SECRET")
	}
	return nil
}

// AuditEnabled reports whether the optional audit database is configured.
func (c *Config) AuditEnabled() bool {
	return c.DBHost != ""
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
