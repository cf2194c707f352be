package balance_repo

import (
	"context"
	"custody_backend/internal/model"
	"custody_backend/internal/repository"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "balances"
	colAddress   = "address"
	colAvailable = "available"

	totalsTable     = "ledger_totals"
	colTotalCredit  = "total_credited"
	colTotalPaidOut = "total_paid_out"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewBalanceRepository(dbc *pgxpool.Pool) repository.BalanceRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetBalance - получение доступного баланса по адресу.
// Возвращает 0, если записи нет
func (r *repo) GetBalance(ctx context.Context, address string) (int64, error) {
	return r.getBalance(ctx, address, false)
}

// GetBalanceForUpdate - получение доступного баланса с блокировкой строки.
// Должен вызываться внутри транзакции
func (r *repo) GetBalanceForUpdate(ctx context.Context, address string) (int64, error) {
	return r.getBalance(ctx, address, true)
}

func (r *repo) getBalance(ctx context.Context, address string, forUpdate bool) (int64, error) {
	// Формируем запрос
	query := sq.Select(colAvailable).
		From(table).
		Where(sq.Eq{colAddress: address}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var available int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return available, nil
}

// UpsertBalance - установка доступного баланса.
// Если записи нет, создается новая
func (r *repo) UpsertBalance(ctx context.Context, address string, amount int64) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colAddress, colAvailable).
		Values(address, amount).
		Suffix("ON CONFLICT (" + colAddress + ") DO UPDATE SET " + colAvailable + " = EXCLUDED." + colAvailable).
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

// SumBalances - сумма всех доступных балансов (для проверки инварианта сохранения)
func (r *repo) SumBalances(ctx context.Context) (int64, error) {
	query := sq.Select("COALESCE(SUM(" + colAvailable + "), 0)").
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

// GetTotals - накопительные счетчики зачислений и выплат
func (r *repo) GetTotals(ctx context.Context) (model.LedgerTotals, error) {
	query := sq.Select(colTotalCredit, colTotalPaidOut).
		From(totalsTable).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return model.LedgerTotals{}, err
	}

	var totals model.LedgerTotals
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&totals.TotalCredited, &totals.TotalPaidOut)
	if err != nil {
		return model.LedgerTotals{}, err
	}

	return totals, nil
}

// AddCredited - увеличение счетчика всего зачисленного актива
func (r *repo) AddCredited(ctx context.Context, amount int64) error {
	return r.addTotal(ctx, colTotalCredit, amount)
}

// AddPaidOut - увеличение счетчика всего выплаченного наружу актива
func (r *repo) AddPaidOut(ctx context.Context, amount int64) error {
	return r.addTotal(ctx, colTotalPaidOut, amount)
}

func (r *repo) addTotal(ctx context.Context, column string, amount int64) error {
	query := sq.Update(totalsTable).
		Set(column, sq.Expr(column+" + ?", amount)).
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
