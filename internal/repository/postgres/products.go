package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/apperrors"
	"github.com/datalouna/skinshop/internal/models"
)

type ProductRepo struct {
	DB DBTX
}

const createProduct = `-- name: CreateProduct
INSERT INTO products (name, price)
VALUES ($1, $2)
RETURNING id, name, price
`

func (r *ProductRepo) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, createProduct, name, price)
	product, err := pgx.CollectOneRow(rows, rowToProduct)

	if err != nil {
		return product, fmt.Errorf("db error: %w", err)
	}

	return product, nil
}

const getProduct = `-- name: GetProduct
SELECT id, name, price FROM products
WHERE id = $1
`

// No lock is taken: product price is immutable within the settlement flow
func (r *ProductRepo) GetProduct(ctx context.Context, productID int64) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, getProduct, productID)
	product, err := pgx.CollectOneRow(rows, rowToProduct)

	switch {
	case err == nil:
		return product, nil
	case errors.Is(err, pgx.ErrNoRows):
		return product, apperrors.ErrProductNotFound
	default:
		return product, fmt.Errorf("db error: %w", err)
	}
}

func rowToProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price)
	return p, err
}
