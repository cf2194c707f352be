package ledger_event_repo

import (
	"context"
	"custody_backend/internal/model"
	"custody_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "ledger_events"
	colID           = "id"
	colKind         = "kind"
	colPlayer       = "player"
	colAmount       = "amount"
	colReleased     = "released"
	colReserveDelta = "reserve_delta"
	colDevDelta     = "dev_delta"
	colRemaining    = "remaining"
	colSessionID    = "session_id"
	colAuthTag      = "auth_tag"
	colCreatedAt    = "created_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewLedgerEventRepository(dbc *pgxpool.Pool) repository.LedgerEventRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateEvent - запись события реестра в журнал аудита
func (r *repo) CreateEvent(ctx context.Context, event *model.LedgerEvent) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colID, colKind, colPlayer, colAmount, colReleased,
			colReserveDelta, colDevDelta, colRemaining, colSessionID, colAuthTag, colCreatedAt).
		Values(event.ID, string(event.Kind), event.Player, event.Amount, event.Released,
			event.ReserveDelta, event.DevDelta, event.Remaining, event.SessionID, event.AuthTag, event.CreatedAt).
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

// GetEventsByPlayer - последние события по игроку, новые первыми
func (r *repo) GetEventsByPlayer(ctx context.Context, player string, limit int) ([]model.LedgerEvent, error) {
	// Формируем запрос
	query := sq.Select(colID, colKind, colPlayer, colAmount, colReleased,
		colReserveDelta, colDevDelta, colRemaining, colSessionID, colAuthTag, colCreatedAt).
		From(table).
		Where(sq.Eq{colPlayer: player}).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.LedgerEvent
	for rows.Next() {
		var event model.LedgerEvent
		var kind string
		err = rows.Scan(&event.ID, &kind, &event.Player, &event.Amount, &event.Released,
			&event.ReserveDelta, &event.DevDelta, &event.Remaining,
			&event.SessionID, &event.AuthTag, &event.CreatedAt)
		if err != nil {
			return nil, err
		}
		event.Kind = model.EventKind(kind)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
