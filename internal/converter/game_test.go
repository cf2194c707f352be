package converter_test

import (
	dto "custody_backend/internal/api/dto/game"
	"custody_backend/internal/converter"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSettlementRequest(t *testing.T) {
	sessionID := strings.Repeat("ab", 32)
	authTag := strings.Repeat("cd", 32)

	req, err := converter.ToSettlementRequest(dto.SettleRequest{
		Player:        "player-1",
		RemainBalance: 4,
		FinalBalance:  10,
		SessionID:     sessionID,
		AuthTag:       authTag,
	})
	require.NoError(t, err)

	assert.Equal(t, "player-1", req.Player)
	assert.EqualValues(t, 4, req.RemainBalance)
	assert.EqualValues(t, 10, req.FinalBalance)
	assert.Equal(t, sessionID, hex.EncodeToString(req.SessionID[:]))
	assert.Equal(t, authTag, hex.EncodeToString(req.AuthTag[:]))
}

func TestToSettlementRequest_BadInput(t *testing.T) {
	valid := strings.Repeat("ab", 32)

	testCases := []struct {
		name      string
		sessionID string
		authTag   string
	}{
		{name: "not hex", sessionID: "zz", authTag: valid},
		{name: "short session id", sessionID: "abcd", authTag: valid},
		{name: "long auth tag", sessionID: valid, authTag: valid + "ff"},
		{name: "empty", sessionID: "", authTag: valid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := converter.ToSettlementRequest(dto.SettleRequest{
				SessionID: tc.sessionID,
				AuthTag:   tc.authTag,
			})
			assert.Error(t, err)
		})
	}
}
