package store

import (
	"context"
	"time"
)

const upsertImage = `-- name: UpsertImage :one
INSERT INTO images (id, slot, path, url, mime_type, size, width, height, uploaded_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (path) DO UPDATE SET
    url = excluded.url,
    mime_type = excluded.mime_type,
    size = excluded.size,
    width = excluded.width,
    height = excluded.height,
    uploaded_by = excluded.uploaded_by,
    created_at = excluded.created_at
RETURNING id, slot, path, url, mime_type, size, width, height, uploaded_by, created_at
`

type UpsertImageParams struct {
	ID         string
	Slot       string
	Path       string
	URL        string
	MimeType   string
	Size       int64
	Width      int64
	Height     int64
	UploadedBy string
	CreatedAt  time.Time
}

// UpsertImage records an uploaded object. Re-uploading to the same path
// replaces the record and keeps its id.
func (q *Queries) UpsertImage(ctx context.Context, arg UpsertImageParams) (Image, error) {
	row := q.db.QueryRowContext(ctx, upsertImage,
		arg.ID,
		arg.Slot,
		arg.Path,
		arg.URL,
		arg.MimeType,
		arg.Size,
		arg.Width,
		arg.Height,
		arg.UploadedBy,
		arg.CreatedAt,
	)
	var i Image
	err := row.Scan(
		&i.ID,
		&i.Slot,
		&i.Path,
		&i.URL,
		&i.MimeType,
		&i.Size,
		&i.Width,
		&i.Height,
		&i.UploadedBy,
		&i.CreatedAt,
	)
	return i, err
}

const listImages = `-- name: ListImages :many
SELECT id, slot, path, url, mime_type, size, width, height, uploaded_by, created_at FROM images
ORDER BY created_at DESC
`

func (q *Queries) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := q.db.QueryContext(ctx, listImages)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Image{}
	for rows.Next() {
		var i Image
		if err := rows.Scan(
			&i.ID,
			&i.Slot,
			&i.Path,
			&i.URL,
			&i.MimeType,
			&i.Size,
			&i.Width,
			&i.Height,
			&i.UploadedBy,
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

const countImages = `-- name: CountImages :one
SELECT COUNT(*) FROM images
`

func (q *Queries) CountImages(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countImages)
	var count int64
	err := row.Scan(&count)
	return count, err
}
