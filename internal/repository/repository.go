package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user with initial balance
	CreateUser(ctx context.Context, username string, balance decimal.Decimal) (models.User, error)

	// Get user by id
	// If user not found must return apperrors.ErrUserNotFound
	GetUser(ctx context.Context, userID int64) (models.User, error)

	// Get user by id with an exclusive row lock (SELECT ... FOR UPDATE).
	// Callers must hold a transaction: the lock lives until it commits
	// or rolls back. Serializes concurrent settlements for one user.
	GetUserForUpdate(ctx context.Context, userID int64) (models.User, error)

	// Set the user balance to the given value
	// If user not found must return apperrors.ErrUserNotFound
	UpdateBalance(ctx context.Context, userID int64, balance decimal.Decimal) (models.User, error)
}

// Product repository interface
type ProductRepo interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal) (models.Product, error)

	// Get product by id
	// If product not found must return apperrors.ErrProductNotFound
	GetProduct(ctx context.Context, productID int64) (models.Product, error)
}

// Purchase repository interface
type PurchaseRepo interface {
	// Record a settled purchase. Rows are append-only
	CreatePurchase(ctx context.Context, userID int64, productID int64, pricePaid decimal.Decimal) (models.Purchase, error)

	// List user purchases, newest first
	ListUserPurchases(ctx context.Context, userID int64) ([]models.Purchase, error)
}

// Storage aggregates repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	Product() ProductRepo
	Purchase() PurchaseRepo

	// InTx runs fn inside a database transaction. The storage passed to
	// fn is bound to that transaction. Commit if fn returns nil,
	// rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
