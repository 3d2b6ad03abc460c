package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the service. Values are read from
// app.env (local development) or plain environment variables (deployment).
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	// Geocoding / travel-time provider. An empty API key selects the pure
	// haversine estimator instead of the provider-backed one.
	GeocodeBaseURL     string        `mapstructure:"GEOCODE_BASE_URL"`
	GeocodeAPIKey      string        `mapstructure:"GEOCODE_API_KEY"`
	ProviderTimeout    time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	GeocodeWorkers     int           `mapstructure:"GEOCODE_WORKERS"`
	ProviderRateLimit  int           `mapstructure:"PROVIDER_RATE_LIMIT"` // requests per second
	GeocodeCacheTTLDay int           `mapstructure:"GEOCODE_CACHE_TTL_DAYS"`

	// Scheduling.
	SlotGranularityMinutes int    `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	LunchBreakStart        string `mapstructure:"LUNCH_BREAK_START"`
	LunchBreakEnd          string `mapstructure:"LUNCH_BREAK_END"`

	// Routing.
	RouteDayStart    string  `mapstructure:"ROUTE_DAY_START"` // "15:04" anchor for the first stop
	MaxHoursPerRoute float64 `mapstructure:"MAX_HOURS_PER_ROUTE"`
}

// LoadConfig reads configuration from app.env in the given path, falling
// back to environment variables for anything not present in the file.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("GEOCODE_BASE_URL", "https://api.openrouteservice.org")
	viper.SetDefault("PROVIDER_TIMEOUT", 10*time.Second)
	viper.SetDefault("GEOCODE_WORKERS", 5)
	viper.SetDefault("PROVIDER_RATE_LIMIT", 8)
	viper.SetDefault("GEOCODE_CACHE_TTL_DAYS", 30)
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 30)
	viper.SetDefault("LUNCH_BREAK_START", "12:00")
	viper.SetDefault("LUNCH_BREAK_END", "13:00")
	viper.SetDefault("ROUTE_DAY_START", "08:00")
	viper.SetDefault("MAX_HOURS_PER_ROUTE", 8.0)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; environment variables take over.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
