package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces the application's environment variables, so
// CELESTIAL_SERVER_PORT maps to the server.port key.
const envPrefix = "CELESTIAL"

// Load configuration from environment variables and optionally a config
// file. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; environment variables and
		// defaults carry the load. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every config key with viper. Required fields
// default to the empty string so env-only deployments still bind, and
// validation catches anything left unset.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "posts.db")

	v.SetDefault("cache.dir", "profile_cache")
	v.SetDefault("cache.ttl_hours", 24)

	v.SetDefault("scraper.email", "")
	v.SetDefault("scraper.password", "")
	v.SetDefault("scraper.headless", true)
	v.SetDefault("scraper.max_scrolls", 10)

	v.SetDefault("search.serpapi_key", "")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.primary_model", "gemini-2.0-flash-exp")
	v.SetDefault("llm.fallback_model", "gemini-1.5-pro")
	v.SetDefault("llm.max_attempts", 4)
	v.SetDefault("llm.requests_per_second", 1)
	v.SetDefault("llm.burst_capacity", 3)
}

// validate checks the loaded configuration against the struct tags.
func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
