package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
}

type UserRole struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentSection is a full content row. Content holds a JSON object of string fields.
type ContentSection struct {
	ID         string         `json:"id"`
	SectionKey string         `json:"section_key"`
	Content    string         `json:"content"`
	Version    int64          `json:"version"`
	UpdatedAt  time.Time      `json:"updated_at"`
	UpdatedBy  sql.NullString `json:"updated_by"`
}

// PublicContentSection is the anonymous projection of a content row.
type PublicContentSection struct {
	SectionKey string    `json:"section_key"`
	Content    string    `json:"content"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Image struct {
	ID         string    `json:"id"`
	Slot       string    `json:"slot"`
	Path       string    `json:"path"`
	URL        string    `json:"url"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	Width      int64     `json:"width"`
	Height     int64     `json:"height"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type CaseInquiry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	InjuryType string    `json:"injury_type"`
	Message    string    `json:"message"`
	IpAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}

type Event struct {
	ID         int64          `json:"id"`
	Level      string         `json:"level"`
	Category   string         `json:"category"`
	Message    string         `json:"message"`
	UserID     sql.NullString `json:"user_id"`
	Metadata   string         `json:"metadata"`
	IpAddress  string         `json:"ip_address"`
	RequestUrl string         `json:"request_url"`
	CreatedAt  time.Time      `json:"created_at"`
}
