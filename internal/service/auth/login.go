package auth

import (
	"context"
	"custody_backend/internal/model"
	"custody_backend/pkg/pass"
	"custody_backend/pkg/token"
	"errors"
	"time"

	"github.com/google/uuid"
)

func (s *serv) Login(ctx context.Context, login, password string) (*model.AuthData, error) {
	// Получение пользователя из бд по логину
	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	// Верификация пароля
	if !pass.VerifyPassword(user.Password, password) {
		return nil, errors.New("invalid password")
	}

	// Генерация sessionID
	sessionID := uuid.NewString()

	// Генерация refresh токена
	refreshToken, err := token.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	// Создать сессию
	err = s.authRepo.CreateSession(ctx,
		&model.Session{
			ID:           sessionID,
			UserID:       user.ID,
			RefreshToken: token.HashRefreshToken(refreshToken),
			ExpiresAt:    time.Now().Add(s.jwtConfig.RefreshTokenDuration()),
		})
	if err != nil {
		return nil, err
	}

	// Создать access токен
	accessToken, err := token.GenerateAccessToken(
		user,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return nil, err
	}

	return &model.AuthData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}
