package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Gateway  GatewayConfig  `koanf:"gateway"`
	Retry    RetryConfig    `koanf:"retry"`
	Refund   RefundConfig   `koanf:"refund"`
	Pricing  PricingConfig  `koanf:"pricing"`
	Notify   NotifyConfig   `koanf:"notify"`
	Logger   LoggerConfig   `koanf:"logger"`
	Worker   WorkerConfig   `koanf:"worker"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// GatewayConfig points at the payment processor API.
type GatewayConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required"`
	APIKey      string        `koanf:"api_key" validate:"required"`
	ConnTimeout time.Duration `koanf:"conn_timeout" validate:"required"`
}

type RetryConfig struct {
	BaseDelay  int32 `koanf:"base_delay"`
	MaxRetries int32 `koanf:"max_retries"`
}

// RefundConfig drives the cancellation refund tiers.
// Tiers is a comma-separated "window:percent" list, e.g. "48h:100,24h:50,0h:0".
type RefundConfig struct {
	Tiers       string `koanf:"tiers" validate:"required"`
	HostPercent int    `koanf:"host_percent"`
}

// PricingConfig holds booking money parameters.
type PricingConfig struct {
	Currency           string  `koanf:"currency" validate:"required"`
	PlatformFeePercent float64 `koanf:"platform_fee_percent"`
	LateFeeHourlyRate  float64 `koanf:"late_fee_hourly_rate" validate:"required"`
}

// NotifyConfig configures the optional message-queue fanout. When URL is
// empty, notifications are only stored in Postgres.
type NotifyConfig struct {
	MQURL    string `koanf:"mq_url"`
	Exchange string `koanf:"exchange"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("BOOKING_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "BOOKING_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
