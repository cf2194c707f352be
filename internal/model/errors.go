package model

import "errors"

// Ошибки уровня домена. Хендлеры преобразуют их в HTTP статусы,
// сервисы оборачивают через %w с контекстом.
var (
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrInsufficientAvailable = errors.New("insufficient available balance")
	ErrInsufficientLocked    = errors.New("insufficient locked balance")
	ErrUnauthorized          = errors.New("caller is not authorized")
	ErrClosedSession         = errors.New("game session is closed")
	ErrInvalidRemainder      = errors.New("remain balance must be within [0, final balance]")
	ErrAuthorityMismatch     = errors.New("settlement authority mismatch")
	ErrUnsupportedRecipient  = errors.New("recipient can not receive the asset")
	ErrConsumerTaken         = errors.New("consumer is already registered")
	ErrConservationViolated  = errors.New("ledger conservation violated")
)
