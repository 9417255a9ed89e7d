// Package config reads the configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	// HTTP Server
	APIURL           *url.URL
	Port             string
	GinMode          string
	CORSAllowOrigins []string
	EnablePprof      bool

	// Logging
	LogFormat string

	// Database. Postgres is used when DBHost is set, SQLite in DataDir otherwise.
	DataDir    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	apiURL string
}

// Load reads the configuration from the environment.
//
// Variables from a .env file in the working directory are loaded
// first. They do not override variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		apiURL:           os.Getenv("API_URL"),
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", gin.ReleaseMode),
		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:      os.Getenv("ENABLE_PPROF") == "true",
		LogFormat:        os.Getenv("LOG_FORMAT"),
		DataDir:          getEnv("DATA_DIR", "data"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getEnv("DB_NAME", "payday"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// On success, APIURL is set.
func (c *Config) Validate() error {
	var errors []string

	if c.apiURL == "" {
		errors = append(errors, "API_URL must be set")
	} else if u, err := url.Parse(c.apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API_URL '%s': must be an absolute URL", c.apiURL))
	} else {
		c.APIURL = u
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		errors = append(errors, fmt.Sprintf("invalid GIN_MODE '%s': must be one of debug, release, test", c.GinMode))
	}

	switch c.LogFormat {
	case "", "human", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid LOG_FORMAT '%s': must be 'human' or 'json'", c.LogFormat))
	}

	if c.DBHost != "" {
		if c.DBUser == "" {
			errors = append(errors, "DB_USER must be set when DB_HOST is set")
		}
		if c.DBName == "" {
			errors = append(errors, "DB_NAME must not be empty when DB_HOST is set")
		}
	} else if c.DataDir == "" {
		errors = append(errors, "DATA_DIR must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// HumanLogs reports if logs should be written for humans instead of as JSON.
//
// If the format is not set explicitly, it defaults to human readable for
// development and JSON for release.
func (c *Config) HumanLogs() bool {
	if c.LogFormat == "" {
		return c.GinMode == gin.DebugMode
	}
	return c.LogFormat == "human"
}

// Dialector returns the database to connect to.
func (c *Config) Dialector() gorm.Dialector {
	if c.DBHost != "" {
		return postgres.Open(fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
		))
	}

	return sqlite.Open(filepath.Join(c.DataDir, "gorm.db") + "?_pragma=foreign_keys(1)")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
