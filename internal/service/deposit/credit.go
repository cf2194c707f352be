package deposit

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"errors"
	"fmt"
	"log"
)

// CreditFromNotification - обработка push-уведомления о входящем переводе
// от внешнего реестра активов. Зачисляет amount на доступный баланс депозитора;
// если указан потребитель - в той же транзакции блокирует всю сумму под него
// и уведомляет потребителя.
func (s *serv) CreditFromNotification(ctx context.Context, depositor string, amount int64, consumer string) error {
	// Уведомления принимаются только от зарегистрированного реестра активов
	caller, ok := middleware.AddressFromContext(ctx)
	if !ok || caller != s.cfg.AssetLedgerAddress() {
		return fmt.Errorf("deposit notification: %w", model.ErrUnauthorized)
	}

	if amount <= 0 {
		return model.ErrZeroAmount
	}
	if depositor == "" {
		return errors.New("depositor address is required")
	}

	var observer = s.observerOf(consumer)
	if consumer != "" && observer == nil {
		return fmt.Errorf("unknown consumer %q: %w", consumer, model.ErrUnauthorized)
	}

	// Начало транзакции: зачисление, блокировка и открытие сессии - один атом
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		available, err := s.balanceRepo.GetBalanceForUpdate(txCtx, depositor)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}

		if err := s.balanceRepo.UpsertBalance(txCtx, depositor, available+amount); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}

		if err := s.balanceRepo.AddCredited(txCtx, amount); err != nil {
			return fmt.Errorf("bump credited total: %w", err)
		}

		if consumer != "" {
			if err := s.lockTx(txCtx, depositor, consumer, amount); err != nil {
				return err
			}
			if err := observer.OnFundsLocked(txCtx, depositor, amount); err != nil {
				return fmt.Errorf("notify consumer: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("deposit credited: depositor=%s amount=%d consumer=%q", depositor, amount, consumer)
	return nil
}
