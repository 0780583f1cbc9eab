package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/apperrors"
	"github.com/datalouna/skinshop/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, balance)
VALUES ($1, $2)
RETURNING id, created_at, username, balance
`

func (r *UserRepo) CreateUser(ctx context.Context, username string, balance decimal.Decimal) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, username, balance)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, fmt.Errorf("user %q already exists: %w", username, err)
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUser = `-- name: GetUser
SELECT id, created_at, username, balance FROM users
WHERE id = $1
`

func (r *UserRepo) GetUser(ctx context.Context, userID int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUser, userID)
	return collectUser(rows)
}

// The acquired row lock is held until the surrounding transaction ends,
// so concurrent settlements for the same user execute one at a time
const getUserForUpdate = `-- name: GetUserForUpdate
SELECT id, created_at, username, balance FROM users
WHERE id = $1
FOR UPDATE
`

func (r *UserRepo) GetUserForUpdate(ctx context.Context, userID int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserForUpdate, userID)
	return collectUser(rows)
}

const updateBalance = `-- name: UpdateBalance
UPDATE users
SET balance = $2
WHERE id = $1
RETURNING id, created_at, username, balance
`

func (r *UserRepo) UpdateBalance(ctx context.Context, userID int64, balance decimal.Decimal) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateBalance, userID, balance)
	return collectUser(rows)
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.Balance)
	return u, err
}
