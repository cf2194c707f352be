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

// split - трехсторонний расчет итога сессии.
// delta > 0: игрок выиграл, выигрыш платит резерв платформы.
// delta < 0: игрок проиграл, проигрыш делится между резервом и разработчиком,
// неделимая единица при нечетном проигрыше достается резерву
type split struct {
	ReserveDelta int64
	DevDelta     int64
}

func computeSplit(locked, finalBalance int64) split {
	delta := finalBalance - locked

	switch {
	case delta > 0:
		return split{ReserveDelta: -delta}
	case delta < 0:
		loss := -delta
		reserveShare := (loss + 1) / 2
		return split{ReserveDelta: reserveShare, DevDelta: loss - reserveShare}
	}

	return split{}
}

// SettleToLedger - расчет сессии с высвобождением средств игрока
// в его доступный баланс депозитного реестра
func (s *serv) SettleToLedger(ctx context.Context, req model.SettlementRequest) (*model.SettlementResult, error) {
	return s.settle(ctx, req, false)
}

// SettleToWallet - расчет сессии с выплатой средств игрока
// напрямую на его кошелек во внешнем реестре активов
func (s *serv) SettleToWallet(ctx context.Context, req model.SettlementRequest) (*model.SettlementResult, error) {
	return s.settle(ctx, req, true)
}

func (s *serv) settle(ctx context.Context, req model.SettlementRequest, toWallet bool) (*model.SettlementResult, error) {
	// Расчет доступен только расчетному центру
	caller, ok := middleware.AddressFromContext(ctx)
	if !ok || caller != s.authority {
		return nil, fmt.Errorf("settle: %w", model.ErrUnauthorized)
	}

	var result *model.SettlementResult

	// Начало транзакции: чтение сессии, расчет и перераспределение - один атом
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		session, err := s.sessionRepo.GetSessionForUpdate(txCtx, s.gameAddress, req.Player)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if !session.IsOpen || session.Locked == 0 {
			return fmt.Errorf("player %s: %w", req.Player, model.ErrClosedSession)
		}

		// Игрок не может удержать больше собственного итогового баланса
		if req.RemainBalance < 0 || req.RemainBalance > req.FinalBalance {
			return fmt.Errorf("remain %d, final %d: %w",
				req.RemainBalance, req.FinalBalance, model.ErrInvalidRemainder)
		}

		outcome := computeSplit(session.Locked, req.FinalBalance)
		released := req.FinalBalance - req.RemainBalance

		if outcome.ReserveDelta < 0 {
			// Выигрыш платится из резерва - банкролл должен быть достаточен
			reserveBalance, err := s.deposit.BalanceOf(txCtx, s.platformReserve)
			if err != nil {
				return fmt.Errorf("get reserve balance: %w", err)
			}
			if reserveBalance < -outcome.ReserveDelta {
				return fmt.Errorf("platform reserve has %d, needs %d: %w",
					reserveBalance, -outcome.ReserveDelta, model.ErrInsufficientAvailable)
			}
		}

		deltas := []model.BalanceDelta{
			{Depositor: s.platformReserve, Amount: outcome.ReserveDelta},
			{Depositor: s.gameDeveloper, Amount: outcome.DevDelta},
		}

		if toWallet {
			err = s.ops.UnlockAndPayOut(txCtx, req.Player, released, deltas)
		} else {
			err = s.ops.UnlockAndRedistribute(txCtx, req.Player, released, deltas)
		}
		if err != nil {
			return err
		}

		session.Locked = req.RemainBalance
		session.IsOpen = req.RemainBalance > 0
		if err := s.sessionRepo.UpsertSession(txCtx, session); err != nil {
			return fmt.Errorf("upsert session: %w", err)
		}

		err = s.eventRepo.CreateEvent(txCtx, &model.LedgerEvent{
			ID:           uuid.NewString(),
			Kind:         model.EventSessionSettled,
			Player:       req.Player,
			Released:     released,
			ReserveDelta: outcome.ReserveDelta,
			DevDelta:     outcome.DevDelta,
			Remaining:    req.RemainBalance,
			SessionID:    req.SessionID[:],
			AuthTag:      req.AuthTag[:],
			CreatedAt:    time.Now(),
		})
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		result = &model.SettlementResult{
			Released:     released,
			ReserveDelta: outcome.ReserveDelta,
			DevDelta:     outcome.DevDelta,
			Remaining:    req.RemainBalance,
			Closed:       !session.IsOpen,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("game session settled: player=%s released=%d reserve=%+d dev=%+d remaining=%d",
		req.Player, result.Released, result.ReserveDelta, result.DevDelta, result.Remaining)
	return result, nil
}
