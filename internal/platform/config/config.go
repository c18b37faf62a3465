package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret           = "a-very-secret-key-should-be-longer-and-random"
	defaultSupportedCurrencies = "USD,EUR,GBP,JPY,INR,CHF,CAD,AUD"
	defaultExchangeRateAPIURL  = "https://openexchangerates.org/api/latest.json"
	defaultConversionTopic     = "fx.conversions"
	defaultFreshnessWindow     = time.Hour
	defaultProviderTimeout     = 10 * time.Second
	defaultJWTExpiryDuration   = time.Hour
	defaultJWTIssuer           = "fx-backend"
	defaultLoginRateLimit      = "5-M"
	defaultConvertRateLimit    = "60-M"
	defaultMigrationsPath      = "file://migrations"
	defaultFrontendBaseURL     = "http://localhost:3000"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
	CORSAllowedOrigins []string

	// Exchange rates
	BaseCurrency         string
	SupportedCurrencies  []string
	RatesFreshnessWindow time.Duration
	ExchangeRateAPIKey   string
	ExchangeRateAPIURL   string
	ProviderTimeout      time.Duration

	// Rate limits, in ulule/limiter format ("<limit>-<period>")
	LoginRateLimit   string
	ConvertRateLimit string

	// Conversion events; publishing is disabled when KafkaBrokers is empty
	KafkaBrokers         []string
	KafkaConversionTopic string

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_DURATION", defaultJWTExpiryDuration.String())
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", defaultFrontendBaseURL)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("SUPPORTED_CURRENCIES", defaultSupportedCurrencies)
	v.SetDefault("RATES_FRESHNESS_WINDOW", defaultFreshnessWindow.String())
	v.SetDefault("EXCHANGE_RATE_API_KEY", "")
	v.SetDefault("EXCHANGE_RATE_API_URL", defaultExchangeRateAPIURL)
	v.SetDefault("PROVIDER_TIMEOUT", defaultProviderTimeout.String())
	v.SetDefault("LOGIN_RATE_LIMIT", defaultLoginRateLimit)
	v.SetDefault("CONVERT_RATE_LIMIT", defaultConvertRateLimit)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_CONVERSION_TOPIC", defaultConversionTopic)
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")

	// Environment variables override the defaults (and anything loaded from .env).
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set, using default", slog.String("port", cfg.Port))
	}
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = parseDuration(v, "JWT_EXPIRY_DURATION", defaultJWTExpiryDuration)
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")

	cfg.GoogleClientID = v.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = v.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = v.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = v.GetString("FRONTEND_BASE_URL")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 && cfg.FrontendBaseURL != "" {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendBaseURL}
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		slog.Warn("Google OAuth is not fully configured. Google sign-in will not function.")
	}

	cfg.BaseCurrency = domain.NormalizeCurrencyCode(v.GetString("BASE_CURRENCY"))
	cfg.SupportedCurrencies = domain.NewSupportedCurrencies(splitList(v.GetString("SUPPORTED_CURRENCIES"))...).Codes()
	cfg.RatesFreshnessWindow = parseDuration(v, "RATES_FRESHNESS_WINDOW", defaultFreshnessWindow)
	cfg.ExchangeRateAPIKey = v.GetString("EXCHANGE_RATE_API_KEY")
	if cfg.ExchangeRateAPIKey == "" {
		slog.Warn("EXCHANGE_RATE_API_KEY not set. Rates will only be served from the cache.")
	}
	cfg.ExchangeRateAPIURL = v.GetString("EXCHANGE_RATE_API_URL")
	cfg.ProviderTimeout = parseDuration(v, "PROVIDER_TIMEOUT", defaultProviderTimeout)

	cfg.LoginRateLimit = v.GetString("LOGIN_RATE_LIMIT")
	cfg.ConvertRateLimit = v.GetString("CONVERT_RATE_LIMIT")

	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.KafkaConversionTopic = v.GetString("KAFKA_CONVERSION_TOPIC")

	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = v.GetString("POSTHOG_ENDPOINT")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the rate cache cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseCurrency == "" {
		errs = append(errs, errors.New("BASE_CURRENCY must not be empty"))
	}
	if len(c.SupportedCurrencies) == 0 {
		errs = append(errs, errors.New("SUPPORTED_CURRENCIES must list at least one currency"))
	} else if c.BaseCurrency != "" && !domain.NewSupportedCurrencies(c.SupportedCurrencies...).Contains(c.BaseCurrency) {
		errs = append(errs, fmt.Errorf("BASE_CURRENCY %s must be one of SUPPORTED_CURRENCIES", c.BaseCurrency))
	}
	if c.RatesFreshnessWindow <= 0 {
		errs = append(errs, errors.New("RATES_FRESHNESS_WINDOW must be positive"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// parseDuration reads key as a Go duration ("1h", "90s") or as plain milliseconds ("3600000").
// Invalid values fall back to def with a warning.
func parseDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration, using default", slog.String("key", key), slog.String("value", raw), slog.String("default", def.String()))
		return def
	}
	return d
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
