package service

import (
	"context"
	"custody_backend/internal/model"
)

// AssetLedger - внешний реестр активов. Исходящие вызовы при выплатах
// и проверка способности адресата принять актив.
type AssetLedger interface {
	Transfer(ctx context.Context, to string, amount int64) error
	CanReceive(ctx context.Context, address string) (bool, error)
}

// LockObserver - наблюдатель блокировок: депозит уведомляет потребителя
// о заблокированных под него средствах внутри той же транзакции.
type LockObserver interface {
	OnFundsLocked(ctx context.Context, depositor string, amount int64) error
}

// ConsumerOps - операции, доступные только зарегистрированному потребителю.
// Получить ConsumerOps можно единственным способом - через RegisterConsumer,
// так что владение значением и есть авторизация.
type ConsumerOps interface {
	Lock(ctx context.Context, depositor string, amount int64) error
	// UnlockAndRedistribute - атомарно уменьшает блокировку депозитора на
	// release + сумму deltas, возвращает release в его доступный баланс и
	// применяет подписанные deltas к балансам остальных участников.
	UnlockAndRedistribute(ctx context.Context, depositor string, release int64, deltas []model.BalanceDelta) error
	// UnlockAndPayOut - то же самое, но release уходит на внешний кошелек
	// депозитора, минуя доступный баланс.
	UnlockAndPayOut(ctx context.Context, depositor string, release int64, deltas []model.BalanceDelta) error
}

type DepositService interface {
	CreditFromNotification(ctx context.Context, depositor string, amount int64, consumer string) error
	Transfer(ctx context.Context, to string, amount int64) error
	PayOut(ctx context.Context, to string, amount int64) error
	BalanceOf(ctx context.Context, depositor string) (int64, error)
	LockedOf(ctx context.Context, depositor, consumer string) (int64, error)
	CheckConservation(ctx context.Context) (*model.ConservationReport, error)
	RegisterConsumer(consumer string, observer LockObserver) (ConsumerOps, error)
	Authority() string
}

type GameService interface {
	TransferToGame(ctx context.Context, amount int64) error
	SettleToLedger(ctx context.Context, req model.SettlementRequest) (*model.SettlementResult, error)
	SettleToWallet(ctx context.Context, req model.SettlementRequest) (*model.SettlementResult, error)
	IsSessionOpen(ctx context.Context, player string) (bool, error)
	SessionLockedAmount(ctx context.Context, player string) (int64, error)
	EventsOf(ctx context.Context, player string, limit int) ([]model.LedgerEvent, error)
}

type SubscriptionService interface {
	Price(ctx context.Context) (int64, error)
	SetPrice(ctx context.Context, price int64) error
	Subscribe(ctx context.Context, amountOfTime int64) (*model.Subscription, error)
	SubscriptionOf(ctx context.Context, address string) (*model.Subscription, error)
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, sessionID, refreshToken string) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
