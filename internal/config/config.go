package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Values come from a
// config file or environment variables, are loaded once at process start, and
// are passed explicitly to the components that need them.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LLMConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	TimeoutMs   int     `mapstructure:"timeout_ms"`
	MaxRetries  int     `mapstructure:"max_retries"`
	BackoffMs   int     `mapstructure:"backoff_ms"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	LogCalls    bool    `mapstructure:"log_calls"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTExpiration  time.Duration `mapstructure:"jwt_expiration"`
	AdminPassword  string        `mapstructure:"admin_password"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	MinPasswordLen int           `mapstructure:"min_password_len"`
}

// LoadConfig reads configuration from config.yaml in the given path and from
// environment variables (LLM_API_KEY, AUTH_JWT_SECRET, ...).
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars: llm.api_key -> LLM_API_KEY.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("database.path", "learnpath.db")
	viper.SetDefault("llm.endpoint", "https://generativelanguage.googleapis.com")
	viper.SetDefault("llm.model", "gemini-1.5-flash-latest")
	viper.SetDefault("llm.timeout_ms", 30000)
	viper.SetDefault("llm.max_retries", 1)
	viper.SetDefault("llm.backoff_ms", 500)
	viper.SetDefault("llm.temperature", 0.4)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.log_calls", false)
	viper.SetDefault("auth.jwt_expiration", "24h")
	viper.SetDefault("auth.bcrypt_cost", 10)
	viper.SetDefault("auth.min_password_len", 8)

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; env vars and defaults may carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the secrets that must be supplied out-of-band.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("llm.api_key (env LLM_API_KEY) is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret (env AUTH_JWT_SECRET) is required")
	}
	if strings.TrimSpace(c.Auth.AdminPassword) == "" {
		return fmt.Errorf("auth.admin_password (env AUTH_ADMIN_PASSWORD) is required")
	}
	return nil
}
