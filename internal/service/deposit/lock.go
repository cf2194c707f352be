package deposit

import (
	"context"
	"custody_backend/internal/model"
	"fmt"
)

// consumerOps - дескриптор потребителя, выдается в RegisterConsumer.
// Все операции работают только с блокировками своего потребителя.
type consumerOps struct {
	serv     *serv
	consumer string
}

func (c *consumerOps) Lock(ctx context.Context, depositor string, amount int64) error {
	if amount <= 0 {
		return model.ErrZeroAmount
	}

	return c.serv.txManager.Do(ctx, func(txCtx context.Context) error {
		return c.serv.lockTx(txCtx, depositor, c.consumer, amount)
	})
}

func (c *consumerOps) UnlockAndRedistribute(ctx context.Context, depositor string, release int64, deltas []model.BalanceDelta) error {
	return c.serv.txManager.Do(ctx, func(txCtx context.Context) error {
		return c.serv.unlockTx(txCtx, depositor, c.consumer, release, deltas, false)
	})
}

func (c *consumerOps) UnlockAndPayOut(ctx context.Context, depositor string, release int64, deltas []model.BalanceDelta) error {
	return c.serv.txManager.Do(ctx, func(txCtx context.Context) error {
		return c.serv.unlockTx(txCtx, depositor, c.consumer, release, deltas, true)
	})
}

// lockTx - перенос средств из доступного баланса в заблокированные.
// Вызывается только внутри транзакции
func (s *serv) lockTx(ctx context.Context, depositor, consumer string, amount int64) error {
	available, err := s.balanceRepo.GetBalanceForUpdate(ctx, depositor)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if available < amount {
		return fmt.Errorf("lock %d of %d: %w", amount, available, model.ErrInsufficientAvailable)
	}

	locked, err := s.lockRepo.GetLockedForUpdate(ctx, depositor, consumer)
	if err != nil {
		return fmt.Errorf("get locked: %w", err)
	}

	if err := s.balanceRepo.UpsertBalance(ctx, depositor, available-amount); err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if err := s.lockRepo.UpsertLocked(ctx, depositor, consumer, locked+amount); err != nil {
		return fmt.Errorf("increase locked: %w", err)
	}

	return nil
}

// unlockTx - атомарное высвобождение и перераспределение заблокированных средств.
// Блокировка уменьшается на release + сумму deltas; release возвращается депозитору
// (в доступный баланс или на внешний кошелек), deltas применяются к балансам
// остальных участников. Вызывается только внутри транзакции
func (s *serv) unlockTx(ctx context.Context, depositor, consumer string, release int64, deltas []model.BalanceDelta, toWallet bool) error {
	if release < 0 {
		return fmt.Errorf("negative release: %w", model.ErrZeroAmount)
	}

	total := release
	for _, delta := range deltas {
		total += delta.Amount
	}

	locked, err := s.lockRepo.GetLockedForUpdate(ctx, depositor, consumer)
	if err != nil {
		return fmt.Errorf("get locked: %w", err)
	}
	if locked < total {
		return fmt.Errorf("unlock %d of %d: %w", total, locked, model.ErrInsufficientLocked)
	}

	if err := s.lockRepo.UpsertLocked(ctx, depositor, consumer, locked-total); err != nil {
		return fmt.Errorf("decrease locked: %w", err)
	}

	for _, delta := range deltas {
		if delta.Amount == 0 {
			continue
		}

		available, err := s.balanceRepo.GetBalanceForUpdate(ctx, delta.Depositor)
		if err != nil {
			return fmt.Errorf("get balance of %s: %w", delta.Depositor, err)
		}

		newBalance := available + delta.Amount
		if newBalance < 0 {
			return fmt.Errorf("debit %s: %w", delta.Depositor, model.ErrInsufficientAvailable)
		}

		if err := s.balanceRepo.UpsertBalance(ctx, delta.Depositor, newBalance); err != nil {
			return fmt.Errorf("apply delta to %s: %w", delta.Depositor, err)
		}
	}

	if release > 0 {
		if toWallet {
			if err := s.balanceRepo.AddPaidOut(ctx, release); err != nil {
				return fmt.Errorf("bump paid out total: %w", err)
			}
			// Внешний перевод необратим, поэтому выполняется последним,
			// когда все изменения внутри контура уже прошли
			if err := s.assetLedger.Transfer(ctx, depositor, release); err != nil {
				return fmt.Errorf("asset ledger transfer: %w", err)
			}
		} else {
			available, err := s.balanceRepo.GetBalanceForUpdate(ctx, depositor)
			if err != nil {
				return fmt.Errorf("get balance: %w", err)
			}
			if err := s.balanceRepo.UpsertBalance(ctx, depositor, available+release); err != nil {
				return fmt.Errorf("release to balance: %w", err)
			}
		}
	}

	return nil
}
