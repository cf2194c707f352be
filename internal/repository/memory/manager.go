package memory

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type txKey struct{}

// Manager - реализация trm.Manager поверх Store: перед выполнением снимается
// копия состояния, при ошибке состояние откатывается. Вложенные вызовы
// продолжают внешнюю "транзакцию", как и trm с пропагацией по умолчанию.
type Manager struct {
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.mu.Lock()
	snapshot := m.store.state.clone()
	m.store.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		m.store.mu.Lock()
		m.store.state = snapshot
		m.store.mu.Unlock()
		return err
	}

	return nil
}

func (m *Manager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
