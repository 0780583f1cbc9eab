package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/datalouna/skinshop/internal/apperrors"
	"github.com/datalouna/skinshop/internal/handlers/render"
	"github.com/datalouna/skinshop/internal/logger"
)

func handleBuy(purchaseService purchaseService, l logger.Logger) http.Handler {
	type request struct {
		UserID    int64 `json:"userId" validate:"required,gt=0"`
		ProductID int64 `json:"productId" validate:"required,gt=0"`
	}

	type response struct {
		Success    bool    `json:"success"`
		NewBalance float64 `json:"newBalance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buy, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		newBalance, err := purchaseService.Settle(r.Context(), buy.UserID, buy.ProductID)

		switch {
		case err == nil:
			balance, _ := newBalance.Float64()
			render.JSON(w, response{Success: true, NewBalance: balance})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrProductNotFound):
			render.ServiceError(w, "Product not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			render.ServiceError(w, "Insufficient balance", http.StatusBadRequest)
		default:
			l.Error("Failed to settle purchase", "user_id", buy.UserID, "product_id", buy.ProductID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListPurchases(purchaseService purchaseService, l logger.Logger) http.Handler {
	type purchase struct {
		ProductID int64     `json:"productId"`
		PricePaid float64   `json:"pricePaid"`
		CreatedAt time.Time `json:"createdAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
		if err != nil || userID <= 0 {
			render.ServiceError(w, "userID must be a positive integer", http.StatusBadRequest)
			return
		}

		records, err := purchaseService.ListUserPurchases(r.Context(), userID)

		switch err {
		case nil:
			purchases := make([]purchase, 0, len(records))
			for _, p := range records {
				pricePaid, _ := p.PricePaid.Float64()
				purchases = append(purchases, purchase{
					ProductID: p.ProductID,
					PricePaid: pricePaid,
					CreatedAt: p.CreatedAt,
				})
			}
			render.JSON(w, purchases)
		default:
			l.Error("Failed to list purchases", "user_id", userID, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
