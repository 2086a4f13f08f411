package store

import (
	"context"
	"database/sql"
	"time"
)

// isAdminPredicate restricts a statement to callers holding the admin role.
// The actor id is bound as the last positional parameter.
const isAdminPredicate = `EXISTS (SELECT 1 FROM user_roles WHERE user_roles.user_id = ? AND user_roles.role = 'admin')`

const listPublicContent = `-- name: ListPublicContent :many
SELECT section_key, content, updated_at FROM content_sections
ORDER BY section_key
`

// ListPublicContent returns the anonymous projection of every section.
func (q *Queries) ListPublicContent(ctx context.Context) ([]PublicContentSection, error) {
	rows, err := q.db.QueryContext(ctx, listPublicContent)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []PublicContentSection{}
	for rows.Next() {
		var i PublicContentSection
		if err := rows.Scan(&i.SectionKey, &i.Content, &i.UpdatedAt); err != nil {
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

const getPublicContent = `-- name: GetPublicContent :one
SELECT section_key, content, updated_at FROM content_sections
WHERE section_key = ?
`

func (q *Queries) GetPublicContent(ctx context.Context, sectionKey string) (PublicContentSection, error) {
	row := q.db.QueryRowContext(ctx, getPublicContent, sectionKey)
	var i PublicContentSection
	err := row.Scan(&i.SectionKey, &i.Content, &i.UpdatedAt)
	return i, err
}

const listAdminContent = `-- name: ListAdminContent :many
SELECT id, section_key, content, version, updated_at, updated_by FROM content_sections
WHERE ` + isAdminPredicate + `
ORDER BY section_key
`

// ListAdminContent returns full rows, or nothing when actorID is not an admin.
func (q *Queries) ListAdminContent(ctx context.Context, actorID string) ([]ContentSection, error) {
	rows, err := q.db.QueryContext(ctx, listAdminContent, actorID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ContentSection{}
	for rows.Next() {
		var i ContentSection
		if err := rows.Scan(
			&i.ID,
			&i.SectionKey,
			&i.Content,
			&i.Version,
			&i.UpdatedAt,
			&i.UpdatedBy,
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

const getAdminContent = `-- name: GetAdminContent :one
SELECT id, section_key, content, version, updated_at, updated_by FROM content_sections
WHERE section_key = ? AND ` + isAdminPredicate + `
`

type GetAdminContentParams struct {
	SectionKey string
	ActorID    string
}

func (q *Queries) GetAdminContent(ctx context.Context, arg GetAdminContentParams) (ContentSection, error) {
	row := q.db.QueryRowContext(ctx, getAdminContent, arg.SectionKey, arg.ActorID)
	var i ContentSection
	err := row.Scan(
		&i.ID,
		&i.SectionKey,
		&i.Content,
		&i.Version,
		&i.UpdatedAt,
		&i.UpdatedBy,
	)
	return i, err
}

const updateContent = `-- name: UpdateContent :one
UPDATE content_sections
SET content = ?, updated_at = ?, updated_by = ?, version = version + 1
WHERE section_key = ?
  AND (? IS NULL OR version = ?)
  AND ` + isAdminPredicate + `
RETURNING id, section_key, content, version, updated_at, updated_by
`

type UpdateContentParams struct {
	Content         string
	UpdatedAt       time.Time
	UpdatedBy       string
	SectionKey      string
	ExpectedVersion sql.NullInt64
}

// UpdateContent replaces a section's content. The row is only written when
// UpdatedBy holds the admin role and, if ExpectedVersion is set, the stored
// version matches. sql.ErrNoRows is returned when nothing was written.
func (q *Queries) UpdateContent(ctx context.Context, arg UpdateContentParams) (ContentSection, error) {
	row := q.db.QueryRowContext(ctx, updateContent,
		arg.Content,
		arg.UpdatedAt,
		arg.UpdatedBy,
		arg.SectionKey,
		arg.ExpectedVersion,
		arg.ExpectedVersion,
		arg.UpdatedBy,
	)
	var i ContentSection
	err := row.Scan(
		&i.ID,
		&i.SectionKey,
		&i.Content,
		&i.Version,
		&i.UpdatedAt,
		&i.UpdatedBy,
	)
	return i, err
}

const createContentSection = `-- name: CreateContentSection :exec
INSERT INTO content_sections (id, section_key, content, version, updated_at)
VALUES (?, ?, ?, 1, ?)
ON CONFLICT (section_key) DO NOTHING
`

type CreateContentSectionParams struct {
	ID         string
	SectionKey string
	Content    string
	UpdatedAt  time.Time
}

// CreateContentSection provisions a section. Existing keys are left untouched.
func (q *Queries) CreateContentSection(ctx context.Context, arg CreateContentSectionParams) error {
	_, err := q.db.ExecContext(ctx, createContentSection,
		arg.ID,
		arg.SectionKey,
		arg.Content,
		arg.UpdatedAt,
	)
	return err
}

const countContentSections = `-- name: CountContentSections :one
SELECT COUNT(*) FROM content_sections
`

func (q *Queries) CountContentSections(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countContentSections)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getLatestContentUpdate = `-- name: GetLatestContentUpdate :one
SELECT updated_at FROM content_sections
ORDER BY updated_at DESC
LIMIT 1
`

func (q *Queries) GetLatestContentUpdate(ctx context.Context) (time.Time, error) {
	row := q.db.QueryRowContext(ctx, getLatestContentUpdate)
	var updatedAt time.Time
	err := row.Scan(&updatedAt)
	return updatedAt, err
}
