package store

import (
	"context"
	"database/sql"
	"time"
)

const createEvent = `-- name: CreateEvent :one
INSERT INTO events (level, category, message, user_id, metadata, ip_address, request_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, level, category, message, user_id, metadata, ip_address, request_url, created_at
`

type CreateEventParams struct {
	Level      string
	Category   string
	Message    string
	UserID     sql.NullString
	Metadata   string
	IpAddress  string
	RequestUrl string
	CreatedAt  time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.UserID,
		arg.Metadata,
		arg.IpAddress,
		arg.RequestUrl,
		arg.CreatedAt,
	)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.Category,
		&i.Message,
		&i.UserID,
		&i.Metadata,
		&i.IpAddress,
		&i.RequestUrl,
		&i.CreatedAt,
	)
	return i, err
}

const listEvents = `-- name: ListEvents :many
SELECT id, level, category, message, user_id, metadata, ip_address, request_url, created_at FROM events
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Event{}
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.ID,
			&i.Level,
			&i.Category,
			&i.Message,
			&i.UserID,
			&i.Metadata,
			&i.IpAddress,
			&i.RequestUrl,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteOldEvents = `-- name: DeleteOldEvents :execrows
DELETE FROM events WHERE created_at < ?
`

func (q *Queries) DeleteOldEvents(ctx context.Context, createdAt time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteOldEvents, createdAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
