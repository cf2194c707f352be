package memory

import (
	"context"
	"custody_backend/internal/model"
	"custody_backend/internal/repository"
	"errors"
	"sort"
)

type balanceRepo struct{ store *Store }

func NewBalanceRepository(store *Store) repository.BalanceRepository {
	return &balanceRepo{store: store}
}

func (r *balanceRepo) GetBalance(_ context.Context, address string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.state.balances[address], nil
}

func (r *balanceRepo) GetBalanceForUpdate(ctx context.Context, address string) (int64, error) {
	return r.GetBalance(ctx, address)
}

func (r *balanceRepo) UpsertBalance(_ context.Context, address string, amount int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.balances[address] = amount
	return nil
}

func (r *balanceRepo) SumBalances(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum int64
	for _, v := range r.store.state.balances {
		sum += v
	}
	return sum, nil
}

func (r *balanceRepo) GetTotals(_ context.Context) (model.LedgerTotals, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.state.totals, nil
}

func (r *balanceRepo) AddCredited(_ context.Context, amount int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.totals.TotalCredited += amount
	return nil
}

func (r *balanceRepo) AddPaidOut(_ context.Context, amount int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.totals.TotalPaidOut += amount
	return nil
}

type lockRepo struct{ store *Store }

func NewLockRepository(store *Store) repository.LockRepository {
	return &lockRepo{store: store}
}

func (r *lockRepo) GetLocked(_ context.Context, depositor, consumer string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.state.locked[lockKey{depositor, consumer}], nil
}

func (r *lockRepo) GetLockedForUpdate(ctx context.Context, depositor, consumer string) (int64, error) {
	return r.GetLocked(ctx, depositor, consumer)
}

func (r *lockRepo) UpsertLocked(_ context.Context, depositor, consumer string, amount int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.locked[lockKey{depositor, consumer}] = amount
	return nil
}

func (r *lockRepo) SumLocked(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum int64
	for _, v := range r.store.state.locked {
		sum += v
	}
	return sum, nil
}

type gameSessionRepo struct{ store *Store }

func NewGameSessionRepository(store *Store) repository.GameSessionRepository {
	return &gameSessionRepo{store: store}
}

func (r *gameSessionRepo) GetSession(_ context.Context, consumer, player string) (*model.GameSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.state.sessions[sessionKey{consumer, player}]
	if !ok {
		return &model.GameSession{Consumer: consumer, Player: player}, nil
	}
	return &session, nil
}

func (r *gameSessionRepo) GetSessionForUpdate(ctx context.Context, consumer, player string) (*model.GameSession, error) {
	return r.GetSession(ctx, consumer, player)
}

func (r *gameSessionRepo) UpsertSession(_ context.Context, session *model.GameSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.sessions[sessionKey{session.Consumer, session.Player}] = *session
	return nil
}

type ledgerEventRepo struct{ store *Store }

func NewLedgerEventRepository(store *Store) repository.LedgerEventRepository {
	return &ledgerEventRepo{store: store}
}

func (r *ledgerEventRepo) CreateEvent(_ context.Context, event *model.LedgerEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.events = append(r.store.state.events, *event)
	return nil
}

func (r *ledgerEventRepo) GetEventsByPlayer(_ context.Context, player string, limit int) ([]model.LedgerEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var events []model.LedgerEvent
	for _, e := range r.store.state.events {
		if e.Player == player {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

type subscriptionRepo struct{ store *Store }

func NewSubscriptionRepository(store *Store) repository.SubscriptionRepository {
	return &subscriptionRepo{store: store}
}

func (r *subscriptionRepo) CreateSubscription(_ context.Context, sub *model.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.subscriptions = append(r.store.state.subscriptions, *sub)
	return nil
}

func (r *subscriptionRepo) GetLastSubscription(_ context.Context, subscriber string) (*model.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var last *model.Subscription
	for i := range r.store.state.subscriptions {
		sub := r.store.state.subscriptions[i]
		if sub.Subscriber != subscriber {
			continue
		}
		if last == nil || sub.Timepoint.After(last.Timepoint) {
			last = &sub
		}
	}
	return last, nil
}

func (r *subscriptionRepo) GetPrice(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.state.price, nil
}

func (r *subscriptionRepo) SetPrice(_ context.Context, price int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.price = price
	return nil
}

type userRepo struct{ store *Store }

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepo{store: store}
}

func (r *userRepo) CreateUser(_ context.Context, user *model.User) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.state.users[user.Login]; ok {
		return 0, errors.New("login already taken")
	}
	id := r.store.state.nextUserID
	r.store.state.nextUserID++
	stored := *user
	stored.ID = id
	r.store.state.users[user.Login] = stored
	return id, nil
}

func (r *userRepo) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.state.users[login]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

type authRepo struct{ store *Store }

func NewAuthRepository(store *Store) repository.AuthRepository {
	return &authRepo{store: store}
}

func (r *authRepo) CreateSession(_ context.Context, session *model.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.authSessions[session.ID] = *session
	return nil
}

func (r *authRepo) GetRefreshTokenBySessionID(_ context.Context, sessionID string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.state.authSessions[sessionID]
	if !ok {
		return "", errors.New("session not found")
	}
	return session.RefreshToken, nil
}

func (r *authRepo) DeleteSession(_ context.Context, sessionID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.state.authSessions, sessionID)
	return nil
}

func (r *authRepo) GetUserBySessionID(_ context.Context, sessionID string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.state.authSessions[sessionID]
	if !ok {
		return nil, errors.New("session not found")
	}
	for _, user := range r.store.state.users {
		if user.ID == session.UserID {
			u := user
			return &u, nil
		}
	}
	return nil, errors.New("user not found")
}
