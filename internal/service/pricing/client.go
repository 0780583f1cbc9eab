package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/logger"
	"github.com/datalouna/skinshop/internal/models"
	"github.com/datalouna/skinshop/internal/money"
)

const (
	// DefaultAppID is the CS:GO application id on the Skinport market
	DefaultAppID = 730

	// MaxItems caps a single catalog response
	MaxItems = 50

	fetchTimeout = 10 * time.Second

	// Upstream diagnostics are truncated to this many bytes
	maxErrorBodyLen = 100
)

// Non-tradable variants sell at a fixed 15% discount
var nonTradableDiscount = decimal.RequireFromString("0.85")

// UpstreamError means the pricing provider was reachable but answered
// with a non-success status. Network-level failures are returned as
// plain wrapped errors instead, so callers can tell the two apart
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pricing upstream error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("pricing upstream error: status %d. %s", e.StatusCode, e.Body)
}

// marketItem is the upstream wire format of one catalog row
type marketItem struct {
	MarketHashName string           `json:"market_hash_name"`
	Currency       string           `json:"currency"`
	MinPrice       *decimal.Decimal `json:"min_price"`
	MaxPrice       *decimal.Decimal `json:"max_price"`
	MeanPrice      *decimal.Decimal `json:"mean_price"`
	Quantity       int64            `json:"quantity"`
}

type Client struct {
	BaseURL string

	client *http.Client
	logger logger.Logger
}

func NewClient(baseURL string, l logger.Logger) *Client {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{},
		logger:  l,
	}
}

// FetchItems issues one read to the pricing provider and normalizes the
// response: unlisted rows (min price not strictly positive) are dropped
// and the result is truncated to MaxItems with upstream order preserved
func (c *Client) FetchItems(ctx context.Context, appID int64, currency string) ([]models.CatalogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("app_id", strconv.FormatInt(appID, 10))
	query.Set("currency", currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/items?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, c.upstreamError(resp)
	}

	var items []marketItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		c.logger.Warn("Failed to decode pricing response", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, min(len(items), MaxItems))
	for _, item := range items {
		if item.MinPrice == nil || !item.MinPrice.IsPositive() {
			continue
		}

		entries = append(entries, models.CatalogEntry{
			Name:             item.MarketHashName,
			TradablePrice:    *item.MinPrice,
			NonTradablePrice: money.Round(item.MinPrice.Mul(nonTradableDiscount)),
		})

		if len(entries) == MaxItems {
			break
		}
	}

	c.logger.Debug("Pricing response", "currency", currency, "upstream_rows", len(items), "entries", len(entries))
	return entries, nil
}

// upstreamError keeps up to maxErrorBodyLen bytes of upstream
// diagnostics for operability, nothing is parsed out of it
func (c *Client) upstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	c.logger.Warn("Pricing upstream rejected request", "status_code", resp.StatusCode)
	return &UpstreamError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
