package converter

import (
	"custody_backend/internal/api/dto/game"
	"custody_backend/internal/model"
	"encoding/hex"
	"fmt"
)

// ToSettlementRequest - разбирает запрос расчетного центра.
// SessionID и AuthTag обязаны быть ровно 32 байтами в hex, дальше
// они нигде не интерпретируются и пишутся в аудит как есть
func ToSettlementRequest(req game.SettleRequest) (model.SettlementRequest, error) {
	var out model.SettlementRequest

	sessionID, err := decode32(req.SessionID)
	if err != nil {
		return out, fmt.Errorf("session_id: %w", err)
	}
	authTag, err := decode32(req.AuthTag)
	if err != nil {
		return out, fmt.Errorf("auth_tag: %w", err)
	}

	out = model.SettlementRequest{
		Player:        req.Player,
		RemainBalance: req.RemainBalance,
		FinalBalance:  req.FinalBalance,
		SessionID:     sessionID,
		AuthTag:       authTag,
	}
	return out, nil
}

func decode32(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func ToSettleResponse(result *model.SettlementResult) game.SettleResponse {
	return game.SettleResponse{
		Released:     result.Released,
		ReserveDelta: result.ReserveDelta,
		DevDelta:     result.DevDelta,
		Remaining:    result.Remaining,
		Closed:       result.Closed,
	}
}

func ToSessionResponse(player string, isOpen bool, locked int64) game.SessionResponse {
	return game.SessionResponse{
		Player: player,
		IsOpen: isOpen,
		Locked: locked,
	}
}

func ToEventResponses(events []model.LedgerEvent) []game.EventResponse {
	result := make([]game.EventResponse, len(events))
	for i, e := range events {
		result[i] = game.EventResponse{
			ID:           e.ID,
			Kind:         string(e.Kind),
			Player:       e.Player,
			Amount:       e.Amount,
			Released:     e.Released,
			ReserveDelta: e.ReserveDelta,
			DevDelta:     e.DevDelta,
			Remaining:    e.Remaining,
			SessionID:    hex.EncodeToString(e.SessionID),
			AuthTag:      hex.EncodeToString(e.AuthTag),
			CreatedAt:    e.CreatedAt.Unix(),
		}
	}
	return result
}
