package game_session_repo

import (
	"context"
	"custody_backend/internal/model"
	"custody_backend/internal/repository"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table       = "game_sessions"
	colConsumer = "consumer"
	colPlayer   = "player"
	colLocked   = "locked"
	colIsOpen   = "is_open"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewGameSessionRepository(dbc *pgxpool.Pool) repository.GameSessionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetSession - игровая сессия игрока у данного потребителя.
// Если записи нет, возвращается закрытая сессия с нулевой блокировкой
func (r *repo) GetSession(ctx context.Context, consumer, player string) (*model.GameSession, error) {
	return r.getSession(ctx, consumer, player, false)
}

// GetSessionForUpdate - то же чтение, но с блокировкой строки внутри транзакции
func (r *repo) GetSessionForUpdate(ctx context.Context, consumer, player string) (*model.GameSession, error) {
	return r.getSession(ctx, consumer, player, true)
}

func (r *repo) getSession(ctx context.Context, consumer, player string, forUpdate bool) (*model.GameSession, error) {
	// Формируем запрос
	query := sq.Select(colLocked, colIsOpen).
		From(table).
		Where(sq.Eq{colConsumer: consumer, colPlayer: player}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	session := model.GameSession{
		Consumer: consumer,
		Player:   player,
	}
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&session.Locked, &session.IsOpen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &session, nil
		}
		return nil, err
	}

	return &session, nil
}

// UpsertSession - сохранение состояния сессии.
// Если записи нет, создается новая
func (r *repo) UpsertSession(ctx context.Context, session *model.GameSession) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colConsumer, colPlayer, colLocked, colIsOpen).
		Values(session.Consumer, session.Player, session.Locked, session.IsOpen).
		Suffix("ON CONFLICT (" + colConsumer + ", " + colPlayer + ") DO UPDATE SET " +
			colLocked + " = EXCLUDED." + colLocked + ", " +
			colIsOpen + " = EXCLUDED." + colIsOpen).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}
