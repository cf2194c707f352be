package deposit

import (
	dto "custody_backend/internal/api/dto/deposit"
	"custody_backend/internal/api/httperr"
	"custody_backend/internal/converter"
	"custody_backend/internal/middleware"
	"custody_backend/internal/service"
	"custody_backend/pkg/req"
	"custody_backend/pkg/resp"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.DepositService
}

type Handler struct {
	serv service.DepositService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Notify - push-уведомление внешнего реестра о входящем переводе.
// Вызывающий обязан быть реестром активов, это проверяет сервис
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.NotifyRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.serv.CreditFromNotification(r.Context(), payload.From, payload.Amount, payload.Consumer)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Transfer - внутренний перевод доступных средств вызывающего
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.TransferRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.serv.Transfer(r.Context(), payload.To, payload.Amount)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PayOut - выплата доступных средств вызывающего на внешний кошелек
func (h *Handler) PayOut(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.PayOutRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.serv.PayOut(r.Context(), payload.To, payload.Amount)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	available, err := h.serv.BalanceOf(r.Context(), address)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBalanceResponse(address, available))
}

func (h *Handler) Locked(w http.ResponseWriter, r *http.Request) {
	depositor := chi.URLParam(r, "depositor")
	consumer := chi.URLParam(r, "consumer")

	locked, err := h.serv.LockedOf(r.Context(), depositor, consumer)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToLockedResponse(depositor, consumer, locked))
}

// Conservation - проверка инварианта сохранения, доступна только владельцу
func (h *Handler) Conservation(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.AddressFromContext(r.Context())
	if !ok || caller != h.serv.Authority() {
		http.Error(w, "owner only", http.StatusForbidden)
		return
	}

	report, err := h.serv.CheckConservation(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToConservationResponse(report))
}
