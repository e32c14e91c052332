package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ServerName  string          `mapstructure:"server_name" yaml:"server_name"`
	Environment string          `mapstructure:"environment" yaml:"environment"`
	Port        int             `mapstructure:"port" yaml:"port"`
	Postgres    PostgresConfig  `mapstructure:"postgres" yaml:"postgres"`
	Redis       RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Auth        AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Providers   ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Dispatch    DispatchConfig  `mapstructure:"dispatch" yaml:"dispatch"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
}

type PostgresConfig struct {
	// URL wins over the discrete fields when set (DATABASE_URL style).
	URL      string `mapstructure:"url" yaml:"url"`
	Address  string `mapstructure:"address" yaml:"address"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"db_name" yaml:"db_name"`
}

// DSN builds a gorm-compatible connection string.
func (c *PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.Address, c.User, c.Password, c.DBName, c.Port)
}

type RedisConfig struct {
	Address      string `mapstructure:"address" yaml:"address"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     int    `mapstructure:"database" yaml:"database"`
	RateLimitQPS int    `mapstructure:"rate_limit_qps" yaml:"rate_limit_qps"`
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

type AuthConfig struct {
	JwtSecret      string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	ExpireAccessH  int    `mapstructure:"expire_access_h" yaml:"expire_access_h"`
	ExpireRefreshH int    `mapstructure:"expire_refresh_h" yaml:"expire_refresh_h"`
}

// ProviderConfig configures one vendor. An empty APIKey disables the
// provider instead of failing the whole system.
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

type ProvidersConfig struct {
	OpenAI     ProviderConfig `mapstructure:"openai" yaml:"openai"`
	Anthropic  ProviderConfig `mapstructure:"anthropic" yaml:"anthropic"`
	Perplexity ProviderConfig `mapstructure:"perplexity" yaml:"perplexity"`
	Gemini     ProviderConfig `mapstructure:"gemini" yaml:"gemini"`
}

type DispatchConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries int           `mapstructure:"retries" yaml:"retries"`
}

type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

func LoadConfig() (*AppConfig, error) {
	var config AppConfig

	viper.SetConfigFile("config/config.yml")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; env vars alone are enough to boot.
	_ = viper.ReadInConfig()

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&config)
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server_name", "ai-hub")
	viper.SetDefault("environment", "development")
	viper.SetDefault("port", 8080)

	viper.SetDefault("postgres.address", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.db_name", "aihub")

	viper.SetDefault("redis.address", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.rate_limit_qps", 20)

	viper.SetDefault("auth.expire_access_h", 24)
	viper.SetDefault("auth.expire_refresh_h", 168)

	viper.SetDefault("providers.openai.model", "gpt-4o-mini")
	viper.SetDefault("providers.openai.temperature", 0.7)
	viper.SetDefault("providers.openai.max_tokens", 1000)
	viper.SetDefault("providers.anthropic.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("providers.anthropic.temperature", 0.7)
	viper.SetDefault("providers.anthropic.max_tokens", 1000)
	viper.SetDefault("providers.perplexity.model", "sonar-pro")
	viper.SetDefault("providers.perplexity.temperature", 0.2)
	viper.SetDefault("providers.perplexity.max_tokens", 1000)
	viper.SetDefault("providers.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("providers.gemini.temperature", 0.7)
	viper.SetDefault("providers.gemini.max_tokens", 1000)

	viper.SetDefault("dispatch.timeout", 30*time.Second)
	viper.SetDefault("dispatch.retries", 1)

	viper.SetDefault("log.file", "/tmp/aihub.log")
	viper.SetDefault("log.level", "INFO")
}

// applyEnvOverrides wires the well-known environment variables that don't
// follow the viper key layout: provider keys and the Railway-style DB URL.
func applyEnvOverrides(cfg *AppConfig) {
	if v := viper.GetString("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := viper.GetString("JWT_SECRET"); v != "" {
		cfg.Auth.JwtSecret = v
	}
	if v := viper.GetString("OPENAI_API_KEY"); v != "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := viper.GetString("ANTHROPIC_API_KEY"); v != "" {
		cfg.Providers.Anthropic.APIKey = v
	}
	if v := viper.GetString("PERPLEXITY_API_KEY"); v != "" {
		cfg.Providers.Perplexity.APIKey = v
	}
	if v := viper.GetString("GEMINI_API_KEY"); v != "" {
		cfg.Providers.Gemini.APIKey = v
	}
}
