package store

import (
	"context"
	"time"
)

const createCaseInquiry = `-- name: CreateCaseInquiry :one
INSERT INTO case_inquiries (name, email, phone, injury_type, message, ip_address, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, name, email, phone, injury_type, message, ip_address, created_at
`

type CreateCaseInquiryParams struct {
	Name       string
	Email      string
	Phone      string
	InjuryType string
	Message    string
	IpAddress  string
	CreatedAt  time.Time
}

func (q *Queries) CreateCaseInquiry(ctx context.Context, arg CreateCaseInquiryParams) (CaseInquiry, error) {
	row := q.db.QueryRowContext(ctx, createCaseInquiry,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.InjuryType,
		arg.Message,
		arg.IpAddress,
		arg.CreatedAt,
	)
	var i CaseInquiry
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.InjuryType,
		&i.Message,
		&i.IpAddress,
		&i.CreatedAt,
	)
	return i, err
}

const listCaseInquiries = `-- name: ListCaseInquiries :many
SELECT id, name, email, phone, injury_type, message, ip_address, created_at FROM case_inquiries
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

type ListCaseInquiriesParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListCaseInquiries(ctx context.Context, arg ListCaseInquiriesParams) ([]CaseInquiry, error) {
	rows, err := q.db.QueryContext(ctx, listCaseInquiries, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CaseInquiry{}
	for rows.Next() {
		var i CaseInquiry
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Email,
			&i.Phone,
			&i.InjuryType,
			&i.Message,
			&i.IpAddress,
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

const countCaseInquiries = `-- name: CountCaseInquiries :one
SELECT COUNT(*) FROM case_inquiries
`

func (q *Queries) CountCaseInquiries(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCaseInquiries)
	var count int64
	err := row.Scan(&count)
	return count, err
}
