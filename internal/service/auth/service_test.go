package auth_test

import (
	"context"
	"custody_backend/internal/model"
	"custody_backend/internal/repository/memory"
	"custody_backend/internal/service"
	"custody_backend/internal/service/auth"
	"custody_backend/pkg/token"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secretKey = []byte("test-secret")

type jwtCfg struct{}

func (jwtCfg) AccessTokenSecretKey() []byte        { return secretKey }
func (jwtCfg) AccessTokenDuration() time.Duration  { return 15 * time.Minute }
func (jwtCfg) RefreshTokenDuration() time.Duration { return 24 * time.Hour }

func newService(t *testing.T) service.AuthService {
	t.Helper()

	store := memory.NewStore()
	return auth.NewAuthService(
		memory.NewManager(store),
		memory.NewUserRepository(store),
		memory.NewAuthRepository(store),
		jwtCfg{},
	)
}

func newUser() *model.User {
	return &model.User{
		Name:     "Alice",
		Login:    "alice",
		Password: "s3cret",
	}
}

func TestRegister(t *testing.T) {
	serv := newService(t)

	data, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
	assert.NotEmpty(t, data.SessionID)

	// Subject access токена - выданный адрес депозитора
	claims, err := token.VerifyToken(data.AccessToken, secretKey)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.Subject)
}

func TestRegister_KeepsExplicitAddress(t *testing.T) {
	serv := newService(t)

	user := newUser()
	user.Address = "custom-address"

	data, err := serv.Register(context.Background(), user)
	require.NoError(t, err)

	claims, err := token.VerifyToken(data.AccessToken, secretKey)
	require.NoError(t, err)
	assert.Equal(t, "custom-address", claims.Subject)
}

func TestRegister_DuplicateLogin(t *testing.T) {
	serv := newService(t)

	_, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	_, err = serv.Register(context.Background(), newUser())
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	serv := newService(t)

	_, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	data, err := serv.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.SessionID)
}

func TestLogin_WrongPassword(t *testing.T) {
	serv := newService(t)

	_, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	_, err = serv.Login(context.Background(), "alice", "wrong")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	serv := newService(t)

	data, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	accessToken, err := serv.Refresh(context.Background(), data.SessionID, data.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestRefresh_InvalidToken(t *testing.T) {
	serv := newService(t)

	data, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	_, err = serv.Refresh(context.Background(), data.SessionID, "garbage")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	serv := newService(t)

	data, err := serv.Register(context.Background(), newUser())
	require.NoError(t, err)

	require.NoError(t, serv.Logout(context.Background(), data.SessionID))

	// После выхода сессия мертва
	_, err = serv.Refresh(context.Background(), data.SessionID, data.RefreshToken)
	assert.Error(t, err)
}
