package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFromFile behaves like Load but reads the given config file instead
// of searching the working directory. Intended for tests.
func LoadFromFile(configPath string) (*Config, error) {
	return load(configPath)
}

func load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.default_model", "openai/gpt-4o-mini")
	v.SetDefault("llm.max_requests_per_minute", 60)
	v.SetDefault("llm.site_url", "http://localhost:3000")

	// Configure the config file location
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	// A missing file is fine; the environment can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables with TENX_ prefix
	v.SetEnvPrefix("TENX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind environment variables: AutomaticEnv alone does not
	// surface env-only keys through Unmarshal.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "TENX_SERVER_PORT"},
		{"server.log_level", "TENX_SERVER_LOG_LEVEL"},
		{"database.url", "TENX_DATABASE_URL"},
		{"auth.jwt_secret", "TENX_AUTH_JWT_SECRET"},
		{"auth.token_lifetime_minutes", "TENX_AUTH_TOKEN_LIFETIME_MINUTES"},
		{"llm.openrouter_api_key", "TENX_LLM_OPENROUTER_API_KEY"},
		{"llm.base_url", "TENX_LLM_BASE_URL"},
		{"llm.default_model", "TENX_LLM_DEFAULT_MODEL"},
		{"llm.max_requests_per_minute", "TENX_LLM_MAX_REQUESTS_PER_MINUTE"},
		{"llm.site_url", "TENX_LLM_SITE_URL"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
