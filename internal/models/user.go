package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	Username  string
	Balance   decimal.Decimal
}
