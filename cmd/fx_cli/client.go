package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/fx_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// apiClient talks to the FX backend HTTP API.
type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// ratesResult is the rate listing plus whether the server flagged it as stale.
type ratesResult struct {
	dto.ExchangeRatesResponse
	Stale bool
}

func (c *apiClient) Rates(ctx context.Context) (*ratesResult, error) {
	var out ratesResult
	respHeader, err := c.do(ctx, http.MethodGet, "/api/v1/exchange-rates", nil, &out.ExchangeRatesResponse)
	if err != nil {
		return nil, err
	}
	out.Stale = respHeader.Get("X-Rates-Stale") == "true"
	return &out, nil
}

func (c *apiClient) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	req := dto.LoginRequest{Username: username, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*dto.ConversionResponse, error) {
	var out dto.ConversionResponse
	req := dto.ConvertCurrencyRequest{FromCurrency: from, ToCurrency: to, Amount: &amount}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/exchange-rates/convert", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) History(ctx context.Context, limit int, nextToken string) (*dto.ListTransactionsResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if nextToken != "" {
		query.Set("nextToken", nextToken)
	}
	path := "/api/v1/transactions"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out dto.ListTransactionsResponse
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &errBody)
		msg := errBody.Error
		if msg == "" {
			msg = errBody.Message
		}
		return resp.Header, &apiError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}
