package subscription

import (
	dto "custody_backend/internal/api/dto/subscription"
	"custody_backend/internal/api/httperr"
	"custody_backend/internal/converter"
	"custody_backend/internal/service"
	"custody_backend/pkg/req"
	"custody_backend/pkg/resp"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.SubscriptionService
}

type Handler struct {
	serv service.SubscriptionService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	price, err := h.serv.Price(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.PriceResponse{Price: price})
}

// SetPrice - смена цены подписки, доступна только владельцу (проверяет сервис)
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SetPriceRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.serv.SetPrice(r.Context(), payload.Price)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Subscribe - покупка подписки, цена списывается с доступного баланса вызывающего
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SubscribeRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.serv.Subscribe(r.Context(), payload.AmountOfTime)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToSubscriptionResponse(sub))
}

func (h *Handler) Subscription(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	sub, err := h.serv.SubscriptionOf(r.Context(), address)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	if sub == nil {
		http.Error(w, "no subscription", http.StatusNotFound)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSubscriptionResponse(sub))
}
