package models

import (
	"github.com/shopspring/decimal"
)

// CatalogEntry is a priced catalog row derived from the upstream market.
// It has no identity beyond its name within a single currency bucket and
// is recomputed from upstream or cache on every read.
type CatalogEntry struct {
	Name             string
	TradablePrice    decimal.Decimal
	NonTradablePrice decimal.Decimal
}
