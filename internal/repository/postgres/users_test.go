package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/datalouna/skinshop/internal/apperrors"
	"github.com/datalouna/skinshop/internal/repository"
	"github.com/datalouna/skinshop/internal/testutil"
)

func TestUsers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	t.Run("CreateUser", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				user, err := storage.User().CreateUser(t.Context(), "test-user", decimal.RequireFromString("1000.50"))

				require.NoError(t, err, "user has to be created ok")
				require.NotZero(t, user.ID)
				require.NotZero(t, user.CreatedAt)
				require.Equal(t, "test-user", user.Username)
				require.True(t, user.Balance.Equal(decimal.RequireFromString("1000.50")))
			})
		})

		t.Run("duplicate username fails", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.User().CreateUser(t.Context(), "test-user", decimal.Zero)
				require.NoError(t, err, "first user creation should be ok")

				_, err = storage.User().CreateUser(t.Context(), "test-user", decimal.Zero)

				require.Error(t, err, "creating user with taken username should fail")
				require.Contains(t, err.Error(), "already exists")
			})
		})

		t.Run("negative balance rejected by schema", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.User().CreateUser(t.Context(), "broke-user", decimal.RequireFromString("-0.01"))

				require.Error(t, err, "negative balance should violate the balance check")
			})
		})
	})

	t.Run("GetUser", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().CreateUser(t.Context(), "test-user", decimal.RequireFromString("100"))
			require.NoError(t, err)

			t.Run("get existing user", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.User().GetUser(t.Context(), user.ID)

					require.NoError(t, err)
					require.Equal(t, user.ID, got.ID)
					require.Equal(t, "test-user", got.Username)
					require.True(t, got.Balance.Equal(decimal.RequireFromString("100")))
				})
			})

			t.Run("get nonexistent user", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().GetUser(t.Context(), user.ID+100500)

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
				})
			})
		})
	})

	t.Run("GetUserForUpdate", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().CreateUser(t.Context(), "test-user", decimal.RequireFromString("100"))
			require.NoError(t, err)

			t.Run("locked read returns the row", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.User().GetUserForUpdate(t.Context(), user.ID)

					require.NoError(t, err)
					require.Equal(t, user.ID, got.ID)
					require.True(t, got.Balance.Equal(decimal.RequireFromString("100")))
				})
			})

			t.Run("nonexistent user", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().GetUserForUpdate(t.Context(), user.ID+100500)

					require.ErrorIs(t, err, apperrors.ErrUserNotFound)
				})
			})
		})
	})

	t.Run("UpdateBalance", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().CreateUser(t.Context(), "test-user", decimal.RequireFromString("1000.50"))
			require.NoError(t, err)

			t.Run("update ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					updated, err := storage.User().UpdateBalance(t.Context(), user.ID, decimal.RequireFromString("974.51"))

					require.NoError(t, err)
					require.True(t, updated.Balance.Equal(decimal.RequireFromString("974.51")))

					stored, err := storage.User().GetUser(t.Context(), user.ID)
					require.NoError(t, err)
					require.True(t, stored.Balance.Equal(decimal.RequireFromString("974.51")), "stored balance should match update")
				})
			})

			t.Run("nonexistent user", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().UpdateBalance(t.Context(), user.ID+100500, decimal.Zero)

					require.ErrorIs(t, err, apperrors.ErrUserNotFound)
				})
			})

			t.Run("negative balance rejected by schema", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().UpdateBalance(t.Context(), user.ID, decimal.RequireFromString("-1"))

					require.Error(t, err, "balance check constraint should reject negative values")
					require.NotErrorIs(t, err, apperrors.ErrUserNotFound)
				})
			})
		})
	})
}
