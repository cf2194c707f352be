package game

import (
	"context"
	dto "custody_backend/internal/api/dto/game"
	"custody_backend/internal/api/httperr"
	"custody_backend/internal/converter"
	"custody_backend/internal/model"
	"custody_backend/internal/service"
	"custody_backend/pkg/req"
	"custody_backend/pkg/resp"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.GameService
}

type Handler struct {
	serv service.GameService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Transfer - перевод доступных средств вызывающего в его игровую сессию
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.TransferToGameRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.serv.TransferToGame(r.Context(), payload.Amount)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Settle - расчет сессии с высвобождением средств игрока в депозитный реестр
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.serv.SettleToLedger)
}

// SettlePayout - расчет сессии с выплатой средств игрока на внешний кошелек
func (h *Handler) SettlePayout(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.serv.SettleToWallet)
}

func (h *Handler) settle(
	w http.ResponseWriter,
	r *http.Request,
	do func(context.Context, model.SettlementRequest) (*model.SettlementResult, error),
) {
	payload, err := req.Decode[dto.SettleRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settlement, err := converter.ToSettlementRequest(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := do(r.Context(), settlement)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSettleResponse(result))
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")

	isOpen, err := h.serv.IsSessionOpen(r.Context(), player)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	locked, err := h.serv.SessionLockedAmount(r.Context(), player)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(player, isOpen, locked))
}

// Events - последние события реестра по игроку, limit через query параметр
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := h.serv.EventsOf(r.Context(), player, limit)
	if err != nil {
		httperr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToEventResponses(events))
}
