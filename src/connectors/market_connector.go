// REST client for the upstream prediction-market API.
package connectors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"oddslens/src/externalmodel"
	"oddslens/src/metrics"
)

const (
	// Default retry configuration
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 4 * time.Second

	httpTimeout = 15 * time.Second
)

// APIError is a non-2xx reply from the market API. The status code is kept so
// callers can tell "empty, not broken" (404) apart from real failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market api %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

// MarketClient talks to the prediction-market REST API, authenticated by an
// x-api-key header.
type MarketClient struct {
	http *resty.Client
}

func NewMarketClient(apiKey, baseURL string) *MarketClient {
	retryCount := defaultRetryAttempts - 1

	if baseURL == "" {
		baseURL = GetConfig().MarketAPIBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(httpTimeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp).
		SetHeader("Content-Type", "application/json")

	if apiKey != "" {
		httpClient.SetHeader("x-api-key", apiKey)
	}

	return &MarketClient{http: httpClient}
}

// NewMarketClientFromEnv builds a client from the environment configuration.
func NewMarketClientFromEnv() *MarketClient {
	config := GetConfig()
	return NewMarketClient(config.MarketAPIKey, config.MarketAPIBaseURL)
}

// endpoint is a stable name for metrics; path may carry wallet or position
// keys and must not be used as a label.
func (c *MarketClient) do(ctx context.Context, method, endpoint, path string, query map[string]string, body, out any) error {
	started := time.Now()

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	metrics.ObserveUpstreamRequest(endpoint, time.Since(started))
	if err != nil {
		logger.WithError(err).WithField("path", path).Error("market api request failed")
		return fmt.Errorf("market api request failed: %w", err)
	}

	if resp.IsError() {
		msg := strings.TrimSpace(string(resp.Body()))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		if resp.StatusCode() != http.StatusNotFound {
			logger.WithFields(map[string]interface{}{
				"path":   path,
				"status": resp.StatusCode(),
			}).Error("market api returned error status")
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	return nil
}

// Positions lists the wallet's outstanding positions.
func (c *MarketClient) Positions(ctx context.Context, wallet string) ([]externalmodel.RawPosition, error) {
	var out externalmodel.PositionsResponse
	err := c.do(ctx, resty.MethodGet, "positions", "/positions", map[string]string{"ownerPubkey": wallet}, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Profile fetches the wallet's aggregate statistics. New wallets 404.
func (c *MarketClient) Profile(ctx context.Context, wallet string) (*externalmodel.RawProfile, error) {
	var out externalmodel.RawProfile
	err := c.do(ctx, resty.MethodGet, "profile", "/profiles/"+wallet, nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists the wallet's account-activity log. Wallets that have never
// traded 404.
func (c *MarketClient) History(ctx context.Context, wallet string) ([]externalmodel.RawHistoryEvent, error) {
	var out externalmodel.HistoryResponse
	err := c.do(ctx, resty.MethodGet, "history", "/history", map[string]string{"ownerPubkey": wallet}, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PnlHistory fetches the realized-PnL time series at the requested
// granularity, capped at count samples.
func (c *MarketClient) PnlHistory(ctx context.Context, wallet, interval string, count int) ([]externalmodel.RawPnlPoint, error) {
	var out externalmodel.PnlHistoryResponse
	query := map[string]string{
		"interval": interval,
		"count":    strconv.Itoa(count),
	}
	err := c.do(ctx, resty.MethodGet, "pnl-history", "/profiles/"+wallet+"/pnl-history", query, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.History, nil
}

// BuildClaimTransaction asks the upstream to build an unsigned claim
// transaction for the position. Returns the transaction base64 encoded.
func (c *MarketClient) BuildClaimTransaction(ctx context.Context, positionPubkey, ownerPubkey string) (string, error) {
	var out externalmodel.BuildTransactionResponse
	body := map[string]string{"ownerPubkey": ownerPubkey}
	err := c.do(ctx, resty.MethodPost, "claim", "/positions/"+positionPubkey+"/claim", nil, body, &out)
	if err != nil {
		return "", err
	}
	return out.Transaction, nil
}

// BuildCloseTransaction asks the upstream to build an unsigned
// close-position transaction. The upstream models this as a DELETE on the
// position resource.
func (c *MarketClient) BuildCloseTransaction(ctx context.Context, positionPubkey, ownerPubkey string) (string, error) {
	var out externalmodel.BuildTransactionResponse
	body := map[string]string{"ownerPubkey": ownerPubkey}
	err := c.do(ctx, resty.MethodDelete, "close-position", "/positions/"+positionPubkey, nil, body, &out)
	if err != nil {
		return "", err
	}
	return out.Transaction, nil
}
