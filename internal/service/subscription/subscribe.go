package subscription

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Price - текущая цена за единицу времени подписки.
// Пока владелец не назначил свою, действует цена из конфигурации
func (s *serv) Price(ctx context.Context) (int64, error) {
	price, err := s.subRepo.GetPrice(ctx)
	if err != nil {
		return 0, err
	}
	if price == 0 {
		price = s.cfg.DefaultPrice()
	}
	return price, nil
}

// SetPrice - смена цены подписки, доступна только владельцу платформы
func (s *serv) SetPrice(ctx context.Context, price int64) error {
	caller, ok := middleware.AddressFromContext(ctx)
	if !ok || caller != s.deposit.Authority() {
		return fmt.Errorf("set subscription price: %w", model.ErrUnauthorized)
	}
	if price <= 0 {
		return model.ErrZeroAmount
	}

	return s.subRepo.SetPrice(ctx, price)
}

// Subscribe - покупка amountOfTime единиц времени по текущей цене.
// Стоимость списывается с доступного баланса вызывающего в пользу владельца
func (s *serv) Subscribe(ctx context.Context, amountOfTime int64) (*model.Subscription, error) {
	subscriber, ok := middleware.AddressFromContext(ctx)
	if !ok {
		return nil, model.ErrUnauthorized
	}
	if amountOfTime <= 0 {
		return nil, model.ErrZeroAmount
	}

	var sub *model.Subscription

	// Начало транзакции: списание и запись покупки - один атом
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		price, err := s.Price(txCtx)
		if err != nil {
			return fmt.Errorf("get price: %w", err)
		}

		// Стоимость не должна переполнять int64
		if price > 0 && amountOfTime > math.MaxInt64/price {
			return fmt.Errorf("%d time units at price %d: %w",
				amountOfTime, price, model.ErrZeroAmount)
		}

		total := price * amountOfTime
		if err := s.deposit.Transfer(txCtx, s.deposit.Authority(), total); err != nil {
			return fmt.Errorf("collect %d: %w", total, err)
		}

		sub = &model.Subscription{
			ID:           uuid.NewString(),
			Subscriber:   subscriber,
			Price:        price,
			Timepoint:    time.Now(),
			AmountOfTime: amountOfTime,
		}
		return s.subRepo.CreateSubscription(txCtx, sub)
	})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// SubscriptionOf - последняя покупка подписки по адресу.
// Возвращает nil, если покупок не было
func (s *serv) SubscriptionOf(ctx context.Context, address string) (*model.Subscription, error) {
	return s.subRepo.GetLastSubscription(ctx, address)
}
