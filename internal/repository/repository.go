package repository

import (
	"context"
	"custody_backend/internal/model"
)

// BalanceRepository - доступные балансы депозиторов и накопительные счетчики реестра.
type BalanceRepository interface {
	GetBalance(ctx context.Context, address string) (int64, error)
	// GetBalanceForUpdate - чтение с блокировкой строки (FOR UPDATE) внутри транзакции
	GetBalanceForUpdate(ctx context.Context, address string) (int64, error)
	UpsertBalance(ctx context.Context, address string, amount int64) error
	SumBalances(ctx context.Context) (int64, error)

	GetTotals(ctx context.Context) (model.LedgerTotals, error)
	AddCredited(ctx context.Context, amount int64) error
	AddPaidOut(ctx context.Context, amount int64) error
}

// LockRepository - средства, заблокированные под конкретного потребителя.
type LockRepository interface {
	GetLocked(ctx context.Context, depositor, consumer string) (int64, error)
	GetLockedForUpdate(ctx context.Context, depositor, consumer string) (int64, error)
	UpsertLocked(ctx context.Context, depositor, consumer string, amount int64) error
	SumLocked(ctx context.Context) (int64, error)
}

type GameSessionRepository interface {
	GetSession(ctx context.Context, consumer, player string) (*model.GameSession, error)
	GetSessionForUpdate(ctx context.Context, consumer, player string) (*model.GameSession, error)
	UpsertSession(ctx context.Context, session *model.GameSession) error
}

type LedgerEventRepository interface {
	CreateEvent(ctx context.Context, event *model.LedgerEvent) error
	GetEventsByPlayer(ctx context.Context, player string, limit int) ([]model.LedgerEvent, error)
}

type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	GetLastSubscription(ctx context.Context, subscriber string) (*model.Subscription, error)

	// GetPrice возвращает 0, если цена еще не назначалась владельцем
	GetPrice(ctx context.Context) (int64, error)
	SetPrice(ctx context.Context, price int64) error
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}
