package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL      = "https://pro-api.coinmarketcap.com"
	SandboxBaseURL      = "https://sandbox-api.coinmarketcap.com"
	DefaultAPIKeyHeader = "X-CMC_PRO_API_KEY"
	DefaultTimeout      = 10 * time.Second
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	MetricsPort  int           `mapstructure:"metrics_port" validate:"min=1,max=65535,nefield=Port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	BodyLimit    int           `mapstructure:"body_limit" validate:"gt=0"`
}

type UpstreamConfig struct {
	BaseURL         string               `mapstructure:"base_url" validate:"required,http_url"`
	APIKey          string               `mapstructure:"api_key"`
	APIKeyHeader    string               `mapstructure:"api_key_header" validate:"required"`
	Timeout         time.Duration        `mapstructure:"timeout" validate:"gt=0"`
	MaxConnsPerHost int                  `mapstructure:"max_conns_per_host" validate:"gt=0"`
	UserAgent       string               `mapstructure:"user_agent"`
	CircuitBreaker  CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"required_if=Enabled true"`
	MaxFailures uint32        `mapstructure:"max_failures" validate:"required_if=Enabled true"`
}

type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EnableLatency  bool `mapstructure:"enable_latency"`
	EnableUpstream bool `mapstructure:"enable_upstream"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
	File   string `mapstructure:"file"`
}

// Load reads config.yaml (when present) from configPath, ./config or the
// working directory, then overlays environment variables. The returned value
// is never mutated afterwards.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaultValues(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("upstream.api_key", "UPSTREAM_API_KEY", "CMC_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file config.yaml: %w", err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Upstream.BaseURL), "/")
	cfg.Upstream.APIKey = strings.TrimSpace(cfg.Upstream.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.body_limit", 1024*1024)

	v.SetDefault("upstream.base_url", DefaultBaseURL)
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.api_key_header", DefaultAPIKeyHeader)
	v.SetDefault("upstream.timeout", DefaultTimeout)
	v.SetDefault("upstream.max_conns_per_host", 512)
	v.SetDefault("upstream.user_agent", "")
	v.SetDefault("upstream.circuit_breaker.enabled", false)
	v.SetDefault("upstream.circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("upstream.circuit_breaker.max_failures", 5)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_upstream", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}
