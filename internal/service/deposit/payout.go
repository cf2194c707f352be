package deposit

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"errors"
	"fmt"
	"log"
)

// PayOut - выплата доступных средств вызывающего на внешний кошелек to.
// Перед списанием адресат проверяется на способность принять актив,
// чтобы не потерять средства на неподдерживаемом получателе
func (s *serv) PayOut(ctx context.Context, to string, amount int64) error {
	caller, ok := middleware.AddressFromContext(ctx)
	if !ok {
		return model.ErrUnauthorized
	}

	if amount <= 0 {
		return model.ErrZeroAmount
	}
	if to == "" {
		return errors.New("recipient address is required")
	}

	receivable, err := s.assetLedger.CanReceive(ctx, to)
	if err != nil {
		return fmt.Errorf("probe recipient: %w", err)
	}
	if !receivable {
		return fmt.Errorf("pay out to %s: %w", to, model.ErrUnsupportedRecipient)
	}

	// Начало транзакции: списание, счетчик выплат и внешний перевод - один атом
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		available, err := s.balanceRepo.GetBalanceForUpdate(txCtx, caller)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		if available < amount {
			return fmt.Errorf("pay out %d of %d: %w", amount, available, model.ErrInsufficientAvailable)
		}

		if err := s.balanceRepo.UpsertBalance(txCtx, caller, available-amount); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		if err := s.balanceRepo.AddPaidOut(txCtx, amount); err != nil {
			return fmt.Errorf("bump paid out total: %w", err)
		}

		if err := s.assetLedger.Transfer(txCtx, to, amount); err != nil {
			return fmt.Errorf("asset ledger transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("pay out: from=%s to=%s amount=%d", caller, to, amount)
	return nil
}
