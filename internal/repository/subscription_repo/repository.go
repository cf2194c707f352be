package subscription_repo

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
	table           = "subscriptions"
	colID           = "id"
	colSubscriber   = "subscriber"
	colPrice        = "price"
	colTimepoint    = "timepoint"
	colAmountOfTime = "amount_of_time"

	settingsTable    = "subscription_settings"
	colSettingsID    = "id"
	colSettingsPrice = "price"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSubscriptionRepository(dbc *pgxpool.Pool) repository.SubscriptionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateSubscription - запись покупки подписки
func (r *repo) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colID, colSubscriber, colPrice, colTimepoint, colAmountOfTime).
		Values(sub.ID, sub.Subscriber, sub.Price, sub.Timepoint, sub.AmountOfTime).
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

// GetLastSubscription - последняя покупка подписчика.
// Возвращает nil, если покупок не было
func (r *repo) GetLastSubscription(ctx context.Context, subscriber string) (*model.Subscription, error) {
	// Формируем запрос
	query := sq.Select(colID, colSubscriber, colPrice, colTimepoint, colAmountOfTime).
		From(table).
		Where(sq.Eq{colSubscriber: subscriber}).
		OrderBy(colTimepoint + " DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var sub model.Subscription
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&sub.ID, &sub.Subscriber, &sub.Price, &sub.Timepoint, &sub.AmountOfTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

// GetPrice - текущая цена за единицу времени.
// Возвращает 0, если владелец ее еще не назначал
func (r *repo) GetPrice(ctx context.Context) (int64, error) {
	query := sq.Select(colSettingsPrice).
		From(settingsTable).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var price int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return price, nil
}

// SetPrice - назначение новой цены за единицу времени
func (r *repo) SetPrice(ctx context.Context, price int64) error {
	// Формируем запрос
	query := sq.Insert(settingsTable).
		Columns(colSettingsID, colSettingsPrice).
		Values(true, price).
		Suffix("ON CONFLICT (" + colSettingsID + ") DO UPDATE SET " +
			colSettingsPrice + " = EXCLUDED." + colSettingsPrice).
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
