// Package memory - репозитории на картах в памяти и транзакционный менеджер
// со снимком состояния. Используются в тестах сервисного слоя вместо PostgreSQL:
// поведение то же (все или ничего), но без внешних зависимостей.
package memory

import (
	"custody_backend/internal/model"
	"sync"
)

type lockKey struct {
	depositor string
	consumer  string
}

type sessionKey struct {
	consumer string
	player   string
}

type state struct {
	balances      map[string]int64
	locked        map[lockKey]int64
	sessions      map[sessionKey]model.GameSession
	events        []model.LedgerEvent
	subscriptions []model.Subscription
	users         map[string]model.User // по логину
	nextUserID    int
	authSessions  map[string]model.Session
	totals        model.LedgerTotals
	price         int64
}

func newState() *state {
	return &state{
		balances:     make(map[string]int64),
		locked:       make(map[lockKey]int64),
		sessions:     make(map[sessionKey]model.GameSession),
		users:        make(map[string]model.User),
		nextUserID:   1,
		authSessions: make(map[string]model.Session),
	}
}

func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.balances {
		cp.balances[k] = v
	}
	for k, v := range s.locked {
		cp.locked[k] = v
	}
	for k, v := range s.sessions {
		cp.sessions[k] = v
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.authSessions {
		cp.authSessions[k] = v
	}
	cp.events = append(cp.events, s.events...)
	cp.subscriptions = append(cp.subscriptions, s.subscriptions...)
	cp.nextUserID = s.nextUserID
	cp.totals = s.totals
	cp.price = s.price
	return cp
}

// Store - общее состояние всех репозиториев в памяти.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}
