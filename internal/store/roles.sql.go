package store

import (
	"context"
	"database/sql"
	"time"
)

const hasRole = `-- name: HasRole :one
SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = ? AND role = ?)
`

type HasRoleParams struct {
	UserID string
	Role   string
}

func (q *Queries) HasRole(ctx context.Context, arg HasRoleParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, hasRole, arg.UserID, arg.Role)
	var exists int64
	err := row.Scan(&exists)
	return exists == 1, err
}

const listRoleHolders = `-- name: ListRoleHolders :many
SELECT user_roles.user_id, users.email, user_roles.created_at
FROM user_roles
LEFT JOIN users ON users.id = user_roles.user_id
WHERE user_roles.role = ?
ORDER BY user_roles.created_at, user_roles.id
`

// ListRoleHoldersRow carries a grant and the email of its account, if the
// account still exists.
type ListRoleHoldersRow struct {
	UserID    string
	Email     sql.NullString
	CreatedAt time.Time
}

func (q *Queries) ListRoleHolders(ctx context.Context, role string) ([]ListRoleHoldersRow, error) {
	rows, err := q.db.QueryContext(ctx, listRoleHolders, role)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ListRoleHoldersRow{}
	for rows.Next() {
		var i ListRoleHoldersRow
		if err := rows.Scan(&i.UserID, &i.Email, &i.CreatedAt); err != nil {
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

const createUserRole = `-- name: CreateUserRole :one
INSERT INTO user_roles (user_id, role, created_at)
VALUES (?, ?, ?)
RETURNING id, user_id, role, created_at
`

type CreateUserRoleParams struct {
	UserID    string
	Role      string
	CreatedAt time.Time
}

func (q *Queries) CreateUserRole(ctx context.Context, arg CreateUserRoleParams) (UserRole, error) {
	row := q.db.QueryRowContext(ctx, createUserRole, arg.UserID, arg.Role, arg.CreatedAt)
	var i UserRole
	err := row.Scan(&i.ID, &i.UserID, &i.Role, &i.CreatedAt)
	return i, err
}

const deleteUserRoleUnlessLast = `-- name: DeleteUserRoleUnlessLast :execrows
DELETE FROM user_roles
WHERE user_id = ? AND role = ?
  AND (SELECT COUNT(*) FROM user_roles WHERE role = ?) > 1
`

type DeleteUserRoleParams struct {
	UserID string
	Role   string
}

// DeleteUserRoleUnlessLast removes a grant unless it is the only holder of
// the role. It reports the number of rows deleted.
func (q *Queries) DeleteUserRoleUnlessLast(ctx context.Context, arg DeleteUserRoleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUserRoleUnlessLast, arg.UserID, arg.Role, arg.Role)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteUserRole = `-- name: DeleteUserRole :execrows
DELETE FROM user_roles WHERE user_id = ? AND role = ?
`

func (q *Queries) DeleteUserRole(ctx context.Context, arg DeleteUserRoleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUserRole, arg.UserID, arg.Role)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countRoleHolders = `-- name: CountRoleHolders :one
SELECT COUNT(*) FROM user_roles WHERE role = ?
`

func (q *Queries) CountRoleHolders(ctx context.Context, role string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRoleHolders, role)
	var count int64
	err := row.Scan(&count)
	return count, err
}
