package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/apperrors"
	"github.com/datalouna/skinshop/internal/models"
	"github.com/datalouna/skinshop/internal/money"
	"github.com/datalouna/skinshop/internal/repository"
)

// Bounds the whole settlement transaction, lock wait included
const settleTimeout = 5 * time.Second

type PurchaseService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *PurchaseService {
	return &PurchaseService{
		storage: storage,
	}
}

// Settle debits the user balance by the product price and records the
// purchase as one transaction. The user row is read FOR UPDATE, so
// concurrent settlements for the same user serialize and the balance
// check always sees the latest committed value.
//
// Typed failures, checked in order: apperrors.ErrUserNotFound,
// apperrors.ErrProductNotFound, apperrors.ErrInsufficientBalance.
// Anything else means the transaction rolled back with no effect
func (s *PurchaseService) Settle(ctx context.Context, userID int64, productID int64) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	var newBalance decimal.Decimal

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		user, err := storage.User().GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		product, err := storage.Product().GetProduct(ctx, productID)
		if err != nil {
			return err
		}

		if user.Balance.LessThan(product.Price) {
			return apperrors.ErrInsufficientBalance
		}

		// Round once, on the final difference only
		newBalance = money.Round(user.Balance.Sub(product.Price))

		if _, err := storage.User().UpdateBalance(ctx, userID, newBalance); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		if _, err := storage.Purchase().CreatePurchase(ctx, userID, productID, product.Price); err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}

		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	return newBalance, nil
}

// ListUserPurchases returns the user's settled purchases, newest first
func (s *PurchaseService) ListUserPurchases(ctx context.Context, userID int64) ([]models.Purchase, error) {
	return s.storage.Purchase().ListUserPurchases(ctx, userID)
}
