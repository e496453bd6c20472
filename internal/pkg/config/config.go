package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Environment
	Environment string `mapstructure:"ENV"`

	// Database Configuration
	DBPath         string `mapstructure:"DB_PATH"`
	DBBusyTimeout  int    `mapstructure:"DB_BUSY_TIMEOUT_MS"`
	DBLogLevel     string `mapstructure:"DB_LOG_LEVEL"`
	WriteBatchSize int    `mapstructure:"WRITE_BATCH_SIZE"`

	// File Processing
	MaxFileSize    int64 `mapstructure:"MAX_FILE_SIZE_MB"`
	SampleRowCount int   `mapstructure:"SAMPLE_ROW_COUNT"`

	// Worker Configuration
	EventBufferSize int `mapstructure:"EVENT_BUFFER_SIZE"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using environment variables only")
		}
	}

	config := &Config{}

	// Set defaults
	viper.SetDefault("ENV", "development")

	// Database defaults
	viper.SetDefault("DB_PATH", "workforce.db")
	viper.SetDefault("DB_BUSY_TIMEOUT_MS", 5000)
	viper.SetDefault("DB_LOG_LEVEL", "silent")
	viper.SetDefault("WRITE_BATCH_SIZE", 500)

	// File processing defaults
	viper.SetDefault("MAX_FILE_SIZE_MB", 100)
	viper.SetDefault("SAMPLE_ROW_COUNT", 5)

	// Worker defaults
	viper.SetDefault("EVENT_BUFFER_SIZE", 64)

	// Bind environment variables
	viper.AutomaticEnv()

	config.Environment = viper.GetString("ENV")

	config.DBPath = viper.GetString("DB_PATH")
	config.DBBusyTimeout = viper.GetInt("DB_BUSY_TIMEOUT_MS")
	config.DBLogLevel = viper.GetString("DB_LOG_LEVEL")
	config.WriteBatchSize = viper.GetInt("WRITE_BATCH_SIZE")

	config.MaxFileSize = viper.GetInt64("MAX_FILE_SIZE_MB")
	config.SampleRowCount = viper.GetInt("SAMPLE_ROW_COUNT")

	config.EventBufferSize = viper.GetInt("EVENT_BUFFER_SIZE")

	// Validate required fields
	if config.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}
	if config.WriteBatchSize <= 0 {
		return nil, fmt.Errorf("WRITE_BATCH_SIZE must be positive")
	}

	return config, nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LogConfig logs the configuration
func (c *Config) LogConfig() {
	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", c.Environment)
	log.Printf("  Database: %s", c.DBPath)
	log.Printf("  Write batch size: %d", c.WriteBatchSize)
	log.Printf("  Max file size: %d MB", c.MaxFileSize)
}
