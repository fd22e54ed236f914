package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var loadOnce sync.Once

func load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg(".env file not found, reading from system environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	viper.SetDefault("PAYPAL_API_BASE_URL", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("CERTIFICATES_ENABLED", false)
	viper.SetDefault("STALE_ORDER_AFTER", "24h")
	viper.SetDefault("STALE_ORDER_SCHEDULE", "@every 1h")
}

// Config returns the value for key from the environment, .env or built-in defaults.
func Config(key string) string {
	loadOnce.Do(load)
	return viper.GetString(key)
}

func Bool(key string) bool {
	loadOnce.Do(load)
	return viper.GetBool(key)
}

func Duration(key string) time.Duration {
	loadOnce.Do(load)
	return viper.GetDuration(key)
}

// Set overrides a key for the lifetime of the process. Used by tests.
func Set(key string, value any) {
	loadOnce.Do(load)
	viper.Set(key, value)
}
