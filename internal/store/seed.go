package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/firmsite/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
)

// RoleAdmin is the only role label the site consults.
const RoleAdmin = "admin"

// SeedOptions controls what Seed provisions.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	// Sections maps section keys to their initial fields. Existing sections are not modified.
	Sections map[string]map[string]string
}

// Seed creates initial data in the database.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	queries := New(db)

	if err := seedSections(ctx, queries, opts.Sections); err != nil {
		return err
	}

	count, err := queries.CountRoleHolders(ctx, RoleAdmin)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		slog.Info("admin already exists, skipping admin seed")
		return nil
	}

	email := opts.AdminEmail
	if email == "" {
		email = DefaultAdminEmail
	}
	password := opts.AdminPassword
	if password == "" {
		password = DefaultAdminPassword
	}

	now := time.Now().UTC()
	user, err := queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		passwordHash, hashErr := auth.HashPassword(password)
		if hashErr != nil {
			return fmt.Errorf("hashing password: %w", hashErr)
		}
		user, err = queries.CreateUser(ctx, CreateUserParams{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: passwordHash,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		slog.Info("created default admin user",
			"id", user.ID,
			"email", user.Email,
			"password", password,
		)
	} else if err != nil {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	if _, err := queries.CreateUserRole(ctx, CreateUserRoleParams{
		UserID:    user.ID,
		Role:      RoleAdmin,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("granting admin role: %w", err)
	}
	slog.Info("granted admin role", "user_id", user.ID, "email", user.Email)

	return nil
}

func seedSections(ctx context.Context, queries *Queries, sections map[string]map[string]string) error {
	now := time.Now().UTC()
	for _, key := range slices.Sorted(maps.Keys(sections)) {
		fields := sections[key]
		if fields == nil {
			fields = map[string]string{}
		}
		encoded, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encoding section %q: %w", key, err)
		}
		if err := queries.CreateContentSection(ctx, CreateContentSectionParams{
			ID:         uuid.NewString(),
			SectionKey: key,
			Content:    string(encoded),
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("creating section %q: %w", key, err)
		}
	}
	return nil
}
