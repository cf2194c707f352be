package deposit

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"errors"
	"fmt"
)

// Transfer - внутренний перевод доступных средств от вызывающего другому депозитору.
// Актив не покидает кастодиальный контур
func (s *serv) Transfer(ctx context.Context, to string, amount int64) error {
	from, ok := middleware.AddressFromContext(ctx)
	if !ok {
		return model.ErrUnauthorized
	}

	if amount <= 0 {
		return model.ErrZeroAmount
	}
	if to == "" {
		return errors.New("recipient address is required")
	}
	if to == from {
		return errors.New("transfer to self")
	}

	// Начало транзакции
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		fromBalance, err := s.balanceRepo.GetBalanceForUpdate(txCtx, from)
		if err != nil {
			return fmt.Errorf("get sender balance: %w", err)
		}
		if fromBalance < amount {
			return fmt.Errorf("transfer %d of %d: %w", amount, fromBalance, model.ErrInsufficientAvailable)
		}

		toBalance, err := s.balanceRepo.GetBalanceForUpdate(txCtx, to)
		if err != nil {
			return fmt.Errorf("get recipient balance: %w", err)
		}

		if err := s.balanceRepo.UpsertBalance(txCtx, from, fromBalance-amount); err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}
		if err := s.balanceRepo.UpsertBalance(txCtx, to, toBalance+amount); err != nil {
			return fmt.Errorf("credit recipient: %w", err)
		}

		return nil
	})
}
