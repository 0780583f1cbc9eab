package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/handlers/middleware"
	"github.com/datalouna/skinshop/internal/handlers/render"
	"github.com/datalouna/skinshop/internal/logger"
	"github.com/datalouna/skinshop/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	catalogService catalogService,
	purchaseService purchaseService,
	logger logger.Logger,
) http.Handler {
	root := http.NewServeMux()

	root.Handle("GET /api/items", handleGetItems(catalogService, logger))
	root.Handle("POST /api/buy", handleBuy(purchaseService, logger))
	root.Handle("GET /api/purchases/{userID}", handleListPurchases(purchaseService, logger))
	root.Handle("GET /{$}", handleRoot())

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

// handleRoot serves the service banner, doubles as a liveness probe
func handleRoot() http.Handler {
	type endpoints struct {
		Items     string `json:"items"`
		Purchase  string `json:"purchase"`
		Purchases string `json:"purchases"`
	}

	type response struct {
		Message   string    `json:"message"`
		Endpoints endpoints `json:"endpoints"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, response{
			Message: "Skinshop API",
			Endpoints: endpoints{
				Items:     "/api/items",
				Purchase:  "/api/buy",
				Purchases: "/api/purchases/{userID}",
			},
		})
	})
}

type catalogService interface {
	// Return the priced catalog for currency. Never fails: degrades to
	// stale cache or an empty catalog on upstream trouble
	GetCatalog(ctx context.Context, currency string) []models.CatalogEntry
}

type purchaseService interface {
	// Settle a purchase atomically
	// Typed failures: apperrors.ErrUserNotFound, apperrors.ErrProductNotFound,
	// apperrors.ErrInsufficientBalance
	Settle(ctx context.Context, userID int64, productID int64) (decimal.Decimal, error)

	ListUserPurchases(ctx context.Context, userID int64) ([]models.Purchase, error)
}
