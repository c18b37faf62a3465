// Package rateprovider fetches the latest exchange rates from an upstream HTTP API.
package rateprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/fx_backend/internal/apperrors"
	"github.com/SscSPs/fx_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const providerName = "openexchangerates"

// DefaultURL is the latest-rates endpoint of openexchangerates.org.
const DefaultURL = "https://openexchangerates.org/api/latest.json"

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 512

var (
	ErrMissingAPIKey = errors.New("api key is not configured")
	ErrAuthFailed    = errors.New("provider rejected credentials")
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	ErrMalformed     = errors.New("malformed provider response")
)

// Config holds the provider settings, passed in explicitly at construction.
type Config struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// latestResponse is the JSON body of a latest-rates answer.
type latestResponse struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Timestamp int64                      `json:"timestamp"`
}

// OpenExchangeRatesProvider implements portssvc.RateProvider over the openexchangerates.org API
// or any endpoint answering with the same {base, rates, timestamp} shape.
type OpenExchangeRatesProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ portssvc.RateProvider = (*OpenExchangeRatesProvider)(nil)

// NewOpenExchangeRatesProvider creates a provider using cfg. An empty URL falls back to DefaultURL.
func NewOpenExchangeRatesProvider(cfg Config, logger *slog.Logger) *OpenExchangeRatesProvider {
	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenExchangeRatesProvider{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Name identifies the provider in logs and errors.
func (p *OpenExchangeRatesProvider) Name() string {
	return providerName
}

// FetchLatest fetches the latest rates quoted against base. The answer may carry a different base
// (free plans are pinned to USD); callers rebase as needed.
func (p *OpenExchangeRatesProvider) FetchLatest(ctx context.Context, base string) (*domain.ProviderRates, error) {
	if p.apiKey == "" {
		return nil, apperrors.NewProviderError(providerName, 0, ErrMissingAPIKey)
	}

	endpoint, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, apperrors.NewProviderError(providerName, 0, fmt.Errorf("invalid provider url: %w", err))
	}
	q := endpoint.Query()
	q.Set("app_id", p.apiKey)
	q.Set("base", base)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, apperrors.NewProviderError(providerName, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	p.logger.DebugContext(ctx, "Fetching exchange rates from provider", slog.String("provider", providerName), slog.String("base", base))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError(providerName, 0, fmt.Errorf("failed to make request: %w", err))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apperrors.NewProviderError(providerName, resp.StatusCode, statusError(resp.StatusCode, body))
	}

	var apiResp latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, apperrors.NewProviderError(providerName, resp.StatusCode, fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	rates, err := validate(apiResp)
	if err != nil {
		return nil, apperrors.NewProviderError(providerName, resp.StatusCode, err)
	}

	fetchedAt := time.Now().UTC()
	if apiResp.Timestamp > 0 {
		fetchedAt = time.Unix(apiResp.Timestamp, 0).UTC()
	}

	return &domain.ProviderRates{
		Base:      domain.NormalizeCurrencyCode(apiResp.Base),
		Rates:     rates,
		FetchedAt: fetchedAt,
	}, nil
}

func statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrAuthFailed, status, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", ErrQuotaExceeded, status, body)
	default:
		return fmt.Errorf("provider returned status %d: %s", status, body)
	}
}

// validate normalizes currency codes and rejects answers that could not be cached safely.
func validate(apiResp latestResponse) (map[string]decimal.Decimal, error) {
	if domain.NormalizeCurrencyCode(apiResp.Base) == "" {
		return nil, fmt.Errorf("%w: missing base currency", ErrMalformed)
	}
	if apiResp.Rates == nil {
		return nil, fmt.Errorf("%w: missing rates", ErrMalformed)
	}
	rates := make(map[string]decimal.Decimal, len(apiResp.Rates))
	for code, rate := range apiResp.Rates {
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: non-positive rate %s for %s", ErrMalformed, rate, code)
		}
		rates[domain.NormalizeCurrencyCode(code)] = rate
	}
	return rates, nil
}
