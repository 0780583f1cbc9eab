package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/models"
)

type PurchaseRepo struct {
	DB DBTX
}

const createPurchase = `-- name: CreatePurchase
INSERT INTO purchases (id, user_id, product_id, price_paid)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, product_id, price_paid, created_at
`

func (r *PurchaseRepo) CreatePurchase(ctx context.Context, userID int64, productID int64, pricePaid decimal.Decimal) (models.Purchase, error) {
	rows, _ := r.DB.Query(ctx, createPurchase, uuid.New(), userID, productID, pricePaid)
	purchase, err := pgx.CollectOneRow(rows, rowToPurchase)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return purchase, fmt.Errorf("purchase references missing user or product: %w", err)
		}

		return purchase, fmt.Errorf("db error: %w", err)
	}

	return purchase, nil
}

const listUserPurchases = `-- name: ListUserPurchases
SELECT id, user_id, product_id, price_paid, created_at FROM purchases
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *PurchaseRepo) ListUserPurchases(ctx context.Context, userID int64) ([]models.Purchase, error) {
	rows, _ := r.DB.Query(ctx, listUserPurchases, userID)
	purchases, err := pgx.CollectRows(rows, rowToPurchase)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return purchases, nil
}

func rowToPurchase(row pgx.CollectableRow) (models.Purchase, error) {
	var p models.Purchase
	err := row.Scan(&p.ID, &p.UserID, &p.ProductID, &p.PricePaid, &p.CreatedAt)
	return p, err
}
