package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/datalouna/skinshop/internal/handlers"
	"github.com/datalouna/skinshop/internal/logger"
	"github.com/datalouna/skinshop/internal/repository"
	"github.com/datalouna/skinshop/internal/repository/postgres"
	"github.com/datalouna/skinshop/internal/service/catalog"
	"github.com/datalouna/skinshop/internal/service/pricing"
	"github.com/datalouna/skinshop/internal/service/purchase"
	"github.com/datalouna/skinshop/internal/testutil"
)

type Services struct {
	Storage         repository.Storage
	PurchaseService *purchase.PurchaseService
	CatalogService  *catalog.CatalogService
}

type Deps struct {
	// Redis client for the price cache
	Redis goredis.UniversalClient

	// Base URL of the (faked) pricing upstream
	SkinportURL string
}

// Create db transaction and run the full router on top of it (one
// connection cause one transaction). The created transaction is passed
// to the inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, deps Deps, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		storage := postgres.NewStorage(tx)

		// Initialize services
		purchaseService := purchase.NewService(storage)
		priceCache := pricing.NewCache(deps.Redis, logger.NewNoOpLogger())
		priceClient := pricing.NewClient(deps.SkinportURL, logger.NewNoOpLogger())
		catalogService := catalog.NewService(catalog.Config{}, priceCache, priceClient, logger.NewNoOpLogger())

		// Complete all together as router
		router := handlers.NewRouter(
			catalogService,
			purchaseService,
			logger.NewNoOpLogger(),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			Storage:         storage,
			PurchaseService: purchaseService,
			CatalogService:  catalogService,
		})
	})
}
