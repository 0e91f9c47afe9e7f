package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Search   SearchConfig   `mapstructure:"search"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains content store settings. The URL scheme picks
// the backend: postgres:// connects to PostgreSQL, anything else is
// treated as a SQLite file path.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// CacheConfig contains trained profile cache settings.
type CacheConfig struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	TTLHours int    `mapstructure:"ttl_hours" validate:"gt=0"`
}

// ScraperConfig contains content acquisition settings. Credentials are
// only needed when scraping runs; without them profile training falls
// back to whatever the content store already holds.
type ScraperConfig struct {
	Email      string `mapstructure:"email"`
	Password   string `mapstructure:"password"`
	Headless   bool   `mapstructure:"headless"`
	MaxScrolls int    `mapstructure:"max_scrolls" validate:"gte=0"`
}

// SearchConfig contains web context enrichment settings. The SerpAPI
// key is optional; without it prompts are built from stored content
// alone.
type SearchConfig struct {
	SerpAPIKey string `mapstructure:"serpapi_key"`
}

// LLMConfig contains all Gemini integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string  `mapstructure:"gemini_api_key" validate:"required"`
	PrimaryModel      string  `mapstructure:"primary_model" validate:"required"`
	FallbackModel     string  `mapstructure:"fallback_model" validate:"required"`
	MaxAttempts       int     `mapstructure:"max_attempts" validate:"gt=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	BurstCapacity     float64 `mapstructure:"burst_capacity" validate:"gt=0"`
}
