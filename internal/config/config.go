package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes is the validity window of issued access tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all OpenRouter integration related settings.
type LLMConfig struct {
	// OpenRouterAPIKey authenticates requests against the OpenRouter API.
	// A missing key is a fatal construction error for the chat client.
	OpenRouterAPIKey string `mapstructure:"openrouter_api_key" validate:"required"`

	// BaseURL is the OpenRouter endpoint root, e.g. "https://openrouter.ai/api/v1".
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// DefaultModel is the model identifier sent with every completion request.
	DefaultModel string `mapstructure:"default_model" validate:"required"`

	// MaxRequestsPerMinute bounds the local outbound call rate per client.
	MaxRequestsPerMinute int `mapstructure:"max_requests_per_minute" validate:"required,gt=0"`

	// SiteURL is sent as the HTTP-Referer header, which OpenRouter uses for
	// app attribution.
	SiteURL string `mapstructure:"site_url" validate:"required,url"`
}
