package balance_repo_test

import (
	"context"
	"custody_backend/internal/repository/balance_repo"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест ходит в настоящий PostgreSQL, схема должна быть накачена миграциями.
// Без PG_DSN пропускается
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN is not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()))
	return pool
}

func TestBalanceRepository(t *testing.T) {
	pool := newPool(t)
	repo := balance_repo.NewBalanceRepository(pool)
	ctx := context.Background()

	address := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM balances WHERE address = $1", address)
	})

	// Неизвестный адрес читается как ноль
	balance, err := repo.GetBalance(ctx, address)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, repo.UpsertBalance(ctx, address, 42))

	balance, err = repo.GetBalance(ctx, address)
	require.NoError(t, err)
	assert.EqualValues(t, 42, balance)

	// Повторный upsert перезаписывает значение
	require.NoError(t, repo.UpsertBalance(ctx, address, 10))

	balance, err = repo.GetBalanceForUpdate(ctx, address)
	require.NoError(t, err)
	assert.EqualValues(t, 10, balance)
}

func TestLedgerTotals(t *testing.T) {
	pool := newPool(t)
	repo := balance_repo.NewBalanceRepository(pool)
	ctx := context.Background()

	before, err := repo.GetTotals(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.AddCredited(ctx, 5))
	require.NoError(t, repo.AddPaidOut(ctx, 2))

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(),
			"UPDATE ledger_totals SET total_credited = total_credited - 5, total_paid_out = total_paid_out - 2")
	})

	after, err := repo.GetTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.TotalCredited+5, after.TotalCredited)
	assert.Equal(t, before.TotalPaidOut+2, after.TotalPaidOut)
}
