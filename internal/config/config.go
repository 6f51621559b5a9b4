package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string

	DefaultUsername string
	DefaultPassword string

	JWTSecret string

	UploadDir string
}

// Load reads the configuration from environment variables. JWT_SECRET must be
// set; everything else falls back to a development default.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "3000"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBUser:          getEnv("DB_USER", "root"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          getEnv("DB_NAME", "vitrine"),
		DefaultUsername: getEnv("DEFAULT_USERNAME", "admin"),
		DefaultPassword: getEnv("DEFAULT_PASSWORD", "admin"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return cfg, nil
}

// DSN is the full MySQL connection string. parseTime is required so GORM can
// scan TIMESTAMP columns into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, hostPort(c.DBHost), c.DBName)
}

// ServerDSN connects to the server without selecting a database, for the
// create-database-if-absent step at startup.
func (c *Config) ServerDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, hostPort(c.DBHost))
}

func hostPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return host + ":3306"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
