package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	Env             string
	DBDriver        string
	DBURL           string
	Secret          string
	CORSOrigins     []string
	ResendAPIKey    string
	ResendFromEmail string
	LogLevel        string
	LogJSON         bool
}

// Load reads configuration from the environment (and an optional .env file).
// SECRET is the only hard requirement; everything else has a development default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_URL", "cellhub.db")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)

	cfg := &Config{
		Port:            v.GetString("PORT"),
		Env:             v.GetString("APP_ENV"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DBURL:           v.GetString("DB_URL"),
		Secret:          v.GetString("SECRET"),
		CORSOrigins:     splitOrigins(v.GetString("CORS_ORIGINS")),
		ResendAPIKey:    v.GetString("RESEND_API_KEY"),
		ResendFromEmail: v.GetString("RESEND_FROM_EMAIL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogJSON:         v.GetBool("LOG_JSON"),
	}

	if cfg.Secret == "" {
		return nil, fmt.Errorf("SECRET must be set")
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
