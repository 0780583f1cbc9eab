package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/datalouna/skinshop/internal/logger"
	"github.com/datalouna/skinshop/internal/models"
	"github.com/datalouna/skinshop/internal/service/pricing"
)

const defaultCurrency = "USD"

type priceFetcher interface {
	// Fetch the priced catalog from the upstream market
	FetchItems(ctx context.Context, appID int64, currency string) ([]models.CatalogEntry, error)
}

type priceCache interface {
	Get(ctx context.Context, currency string) ([]models.CatalogEntry, bool)
	GetStale(ctx context.Context, currency string) ([]models.CatalogEntry, bool)
	Set(ctx context.Context, currency string, entries []models.CatalogEntry, ttl time.Duration)
}

type Config struct {
	// Upstream market application id. pricing.DefaultAppID if zero
	AppID int64

	// How long cached catalogs stay fresh. pricing.DefaultTTL if zero
	CacheTTL time.Duration
}

type CatalogService struct {
	appID    int64
	cacheTTL time.Duration

	cache   priceCache
	fetcher priceFetcher
	logger  logger.Logger
}

func NewService(cfg Config, cache priceCache, fetcher priceFetcher, l logger.Logger) *CatalogService {
	if cfg.AppID == 0 {
		cfg.AppID = pricing.DefaultAppID
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = pricing.DefaultTTL
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &CatalogService{
		appID:    cfg.AppID,
		cacheTTL: cfg.CacheTTL,
		cache:    cache,
		fetcher:  fetcher,
		logger:   l,
	}
}

// GetCatalog returns the priced catalog for the currency. It never
// fails: cache first, upstream on miss with write-back, stale cache if
// upstream is down, empty catalog as the last resort
func (s *CatalogService) GetCatalog(ctx context.Context, currency string) []models.CatalogEntry {
	currency = normalizeCurrency(currency)

	if entries, ok := s.cache.Get(ctx, currency); ok {
		return entries
	}

	entries, err := s.fetcher.FetchItems(ctx, s.appID, currency)
	if err == nil {
		s.cache.Set(ctx, currency, entries, s.cacheTTL)
		return entries
	}

	s.logger.Warn("Pricing upstream unavailable, trying stale cache", "currency", currency, "error", err)

	if entries, ok := s.cache.GetStale(ctx, currency); ok {
		return entries
	}

	return []models.CatalogEntry{}
}

func normalizeCurrency(currency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return strings.ToUpper(currency)
}
