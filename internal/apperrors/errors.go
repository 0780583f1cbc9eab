package apperrors

import (
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	ErrInsufficientBalance = errors.New("insufficient balance")
)
