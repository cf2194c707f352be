package auth

import (
	"context"
	"custody_backend/pkg/token"
	"errors"
)

func (s *serv) Refresh(ctx context.Context, sessionID, refreshToken string) (string, error) {
	// Получение хэша refresh токена из хранилища по sessionID
	refreshTokenHash, err := s.authRepo.GetRefreshTokenBySessionID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	// Верификация переданного refresh токена с хэшем из хранилища
	if !token.VerifyRefreshToken(refreshToken, refreshTokenHash) {
		return "", errors.New("invalid refresh token")
	}

	// Получение пользователя по sessionID
	user, err := s.authRepo.GetUserBySessionID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	// Генерация нового access токена
	newAccessToken, err := token.GenerateAccessToken(
		user,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return "", err
	}

	return newAccessToken, nil
}

func (s *serv) Logout(ctx context.Context, sessionID string) error {
	return s.authRepo.DeleteSession(ctx, sessionID)
}
