package game

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// OnFundsLocked - уведомление от депозитного реестра о средствах,
// заблокированных под этот движок. Открывает новую сессию игрока или
// пополняет открытую. Вызывается внутри транзакции зачисления
func (s *serv) OnFundsLocked(ctx context.Context, player string, amount int64) error {
	session, err := s.sessionRepo.GetSessionForUpdate(ctx, s.gameAddress, player)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	wasOpen := session.IsOpen
	session.Locked += amount
	session.IsOpen = true

	if err := s.sessionRepo.UpsertSession(ctx, session); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	kind := model.EventSessionOpened
	if wasOpen {
		kind = model.EventSessionRefreshed
	}

	err = s.eventRepo.CreateEvent(ctx, &model.LedgerEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Player:    player,
		Amount:    amount,
		Remaining: session.Locked,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	log.Printf("game session %s: player=%s amount=%d locked=%d", kind, player, amount, session.Locked)
	return nil
}

// TransferToGame - игрок переводит уже задепонированные доступные средства
// в свою игровую сессию
func (s *serv) TransferToGame(ctx context.Context, amount int64) error {
	player, ok := middleware.AddressFromContext(ctx)
	if !ok {
		return model.ErrUnauthorized
	}
	if amount <= 0 {
		return model.ErrZeroAmount
	}

	// Начало транзакции: блокировка и открытие сессии - один атом
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.ops.Lock(txCtx, player, amount); err != nil {
			return err
		}
		return s.OnFundsLocked(txCtx, player, amount)
	})
}
