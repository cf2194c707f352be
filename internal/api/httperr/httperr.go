// Package httperr - преобразование доменных ошибок в HTTP статусы.
package httperr

import (
	"custody_backend/internal/model"
	"errors"
	"log"
	"net/http"
)

// Write - пишет статус по доменной ошибке и логирует ее.
// Неизвестные ошибки прячутся за 500, чтобы не утекали детали хранилища
func Write(w http.ResponseWriter, err error) {
	log.Printf("request failed: %v", err)

	switch {
	case errors.Is(err, model.ErrZeroAmount),
		errors.Is(err, model.ErrInvalidRemainder):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, model.ErrInsufficientAvailable),
		errors.Is(err, model.ErrInsufficientLocked):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, model.ErrClosedSession),
		errors.Is(err, model.ErrConsumerTaken),
		errors.Is(err, model.ErrUnsupportedRecipient):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrConservationViolated):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
