package game

import (
	"context"
	"custody_backend/internal/model"
)

func (s *serv) IsSessionOpen(ctx context.Context, player string) (bool, error) {
	session, err := s.sessionRepo.GetSession(ctx, s.gameAddress, player)
	if err != nil {
		return false, err
	}
	return session.IsOpen, nil
}

func (s *serv) SessionLockedAmount(ctx context.Context, player string) (int64, error) {
	session, err := s.sessionRepo.GetSession(ctx, s.gameAddress, player)
	if err != nil {
		return 0, err
	}
	return session.Locked, nil
}

func (s *serv) EventsOf(ctx context.Context, player string, limit int) ([]model.LedgerEvent, error) {
	return s.eventRepo.GetEventsByPlayer(ctx, player, limit)
}
