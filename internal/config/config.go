// Package config loads runtime configuration from the environment.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the application.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	UploadDir      string
	ViaCEPBaseURL  string
	RabbitMQURL    string
	SessionExpiry  time.Duration
}

// Load reads a local .env file when present and resolves every setting from
// the environment, falling back to defaults suitable for development.
func Load() *Config {
	// A missing .env is not an error; production supplies real env vars.
	_ = godotenv.Load()

	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "drogaria.db")
	viper.SetDefault("UPLOAD_DIR", "uploads/produtos")
	viper.SetDefault("VIACEP_BASE_URL", "https://viacep.com.br")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SESSION_EXPIRY", "24h")
	viper.AutomaticEnv()

	return &Config{
		AppPort:        viper.GetString("APP_PORT"),
		DatabaseDriver: viper.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    viper.GetString("DATABASE_DSN"),
		UploadDir:      viper.GetString("UPLOAD_DIR"),
		ViaCEPBaseURL:  viper.GetString("VIACEP_BASE_URL"),
		RabbitMQURL:    viper.GetString("RABBITMQ_URL"),
		SessionExpiry:  viper.GetDuration("SESSION_EXPIRY"),
	}
}
