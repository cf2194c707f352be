package model

import "time"

type EventKind string

const (
	EventSessionOpened    EventKind = "session_opened"
	EventSessionRefreshed EventKind = "session_refreshed"
	EventSessionSettled   EventKind = "session_settled"
)

// LedgerEvent - событие реестра для аудита. Не участвует в управлении потоком,
// только фиксирует факт для наблюдаемости.
type LedgerEvent struct {
	ID           string
	Kind         EventKind
	Player       string
	Amount       int64
	Released     int64
	ReserveDelta int64
	DevDelta     int64
	Remaining    int64
	SessionID    []byte
	AuthTag      []byte
	CreatedAt    time.Time
}
