package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is append-only: one row per settled purchase, never updated
type Purchase struct {
	ID        uuid.UUID
	UserID    int64
	ProductID int64
	PricePaid decimal.Decimal
	CreatedAt time.Time
}
