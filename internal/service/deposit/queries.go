package deposit

import (
	"context"
	"custody_backend/internal/model"
	"fmt"
)

func (s *serv) BalanceOf(ctx context.Context, depositor string) (int64, error) {
	return s.balanceRepo.GetBalance(ctx, depositor)
}

func (s *serv) LockedOf(ctx context.Context, depositor, consumer string) (int64, error) {
	return s.lockRepo.GetLocked(ctx, depositor, consumer)
}

// CheckConservation - проверка инварианта сохранения:
// сумма доступных и заблокированных средств должна равняться
// всему зачисленному минус все выплаченное наружу.
// Выполняется в транзакции ради согласованного среза
func (s *serv) CheckConservation(ctx context.Context) (*model.ConservationReport, error) {
	var report model.ConservationReport

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		available, err := s.balanceRepo.SumBalances(txCtx)
		if err != nil {
			return fmt.Errorf("sum balances: %w", err)
		}

		locked, err := s.lockRepo.SumLocked(txCtx)
		if err != nil {
			return fmt.Errorf("sum locked: %w", err)
		}

		totals, err := s.balanceRepo.GetTotals(txCtx)
		if err != nil {
			return fmt.Errorf("get totals: %w", err)
		}

		report = model.ConservationReport{
			TotalAvailable: available,
			TotalLocked:    locked,
			TotalCredited:  totals.TotalCredited,
			TotalPaidOut:   totals.TotalPaidOut,
			Consistent:     available+locked == totals.TotalCredited-totals.TotalPaidOut,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}
