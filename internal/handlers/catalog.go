package handlers

import (
	"net/http"

	"github.com/datalouna/skinshop/internal/handlers/render"
	"github.com/datalouna/skinshop/internal/logger"
)

func handleGetItems(catalogService catalogService, l logger.Logger) http.Handler {
	type item struct {
		Name             string  `json:"name"`
		TradablePrice    float64 `json:"tradablePrice"`
		NonTradablePrice float64 `json:"nonTradablePrice"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		currency := r.URL.Query().Get("currency")

		// Never fails: degraded to stale or empty catalog inside the service
		entries := catalogService.GetCatalog(r.Context(), currency)

		items := make([]item, 0, len(entries))
		for _, e := range entries {
			tradable, _ := e.TradablePrice.Float64()
			nonTradable, _ := e.NonTradablePrice.Float64()
			items = append(items, item{
				Name:             e.Name,
				TradablePrice:    tradable,
				NonTradablePrice: nonTradable,
			})
		}

		render.JSON(w, items)
	})
}
