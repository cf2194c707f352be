package lock_repo

import (
	"context"
	"custody_backend/internal/repository"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "locked_funds"
	colDepositor = "depositor"
	colConsumer  = "consumer"
	colLocked    = "locked"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewLockRepository(dbc *pgxpool.Pool) repository.LockRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetLocked - заблокированная сумма пары (депозитор, потребитель).
// Возвращает 0, если записи нет
func (r *repo) GetLocked(ctx context.Context, depositor, consumer string) (int64, error) {
	return r.getLocked(ctx, depositor, consumer, false)
}

// GetLockedForUpdate - то же чтение, но с блокировкой строки внутри транзакции
func (r *repo) GetLockedForUpdate(ctx context.Context, depositor, consumer string) (int64, error) {
	return r.getLocked(ctx, depositor, consumer, true)
}

func (r *repo) getLocked(ctx context.Context, depositor, consumer string, forUpdate bool) (int64, error) {
	// Формируем запрос
	query := sq.Select(colLocked).
		From(table).
		Where(sq.Eq{colDepositor: depositor, colConsumer: consumer}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var locked int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return locked, nil
}

// UpsertLocked - установка заблокированной суммы.
// Если записи нет, создается новая
func (r *repo) UpsertLocked(ctx context.Context, depositor, consumer string, amount int64) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colDepositor, colConsumer, colLocked).
		Values(depositor, consumer, amount).
		Suffix("ON CONFLICT (" + colDepositor + ", " + colConsumer + ") DO UPDATE SET " +
			colLocked + " = EXCLUDED." + colLocked).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// SumLocked - сумма всех заблокированных средств (для проверки инварианта сохранения)
func (r *repo) SumLocked(ctx context.Context) (int64, error) {
	query := sq.Select("COALESCE(SUM(" + colLocked + "), 0)").
		From(table).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var sum int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&sum)
	if err != nil {
		return 0, err
	}

	return sum, nil
}
