package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Report   ReportConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	CSVFile     string
	LoadTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

type ReportConfig struct {
	CurrencyLocale string
}

type MetricsConfig struct {
	Enabled bool
}

// defaults doubles as the list of recognised keys; each key is read from the
// upper-cased environment variable of the same name.
var defaults = map[string]any{
	"server_host":                 "localhost",
	"server_port":                 8501,
	"server_read_timeout":         10 * time.Second,
	"server_write_timeout":        10 * time.Second,
	"server_idle_timeout":         60 * time.Second,
	"server_shutdown_timeout":     30 * time.Second,
	"csv_file":                    "all_data.csv",
	"csv_load_timeout":            30 * time.Second,
	"log_level":                   "info",
	"log_format":                  "json",
	"security_rate_limit_enabled": true,
	"security_rate_limit_rps":     100,
	"security_rate_limit_burst":   10,
	"security_allowed_origins":    "http://localhost:8501",
	"security_trusted_proxies":    "127.0.0.1",
	"report_currency_locale":      "pt-BR",
	"metrics_enabled":             true,
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are applied first without overriding real ones.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server_host"),
			Port:            v.GetInt("server_port"),
			ReadTimeout:     v.GetDuration("server_read_timeout"),
			WriteTimeout:    v.GetDuration("server_write_timeout"),
			IdleTimeout:     v.GetDuration("server_idle_timeout"),
			ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),
		},
		Data: DataConfig{
			CSVFile:     v.GetString("csv_file"),
			LoadTimeout: v.GetDuration("csv_load_timeout"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString("log_level")),
			Format: strings.ToLower(v.GetString("log_format")),
		},
		Security: SecurityConfig{
			EnableRateLimit: v.GetBool("security_rate_limit_enabled"),
			RateLimitRPS:    v.GetInt("security_rate_limit_rps"),
			RateLimitBurst:  v.GetInt("security_rate_limit_burst"),
			AllowedOrigins:  splitList(v.GetString("security_allowed_origins")),
			TrustedProxies:  splitList(v.GetString("security_trusted_proxies")),
		},
		Report: ReportConfig{
			CurrencyLocale: v.GetString("report_currency_locale"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Data.CSVFile == "" {
		return fmt.Errorf("CSV file path cannot be empty")
	}

	if c.Data.LoadTimeout <= 0 {
		return fmt.Errorf("CSV load timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Report.CurrencyLocale == "" {
		return fmt.Errorf("currency locale cannot be empty")
	}

	return nil
}

// splitList parses a comma separated list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
