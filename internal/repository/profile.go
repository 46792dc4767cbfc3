package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pulseboard/pulseboard/internal/model"
)

// Common errors for profile repository operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// UpsertProfile inserts a profile row or refreshes an existing one for the
// same session and provider. Called from the OAuth callback.
func (r *Repository) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (id, session_id, provider, email, display_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (session_id, provider) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = EXCLUDED.updated_at,
		    deleted_at = NULL
	`

	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.SessionID,
		profile.Provider,
		profile.Email,
		profile.DisplayName,
		profile.AvatarURL,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// GetProfile retrieves the profile for a session and provider.
func (r *Repository) GetProfile(ctx context.Context, sessionID, provider string) (*model.Profile, error) {
	query := `
		SELECT id, session_id, provider, email, display_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE session_id = $1 AND provider = $2 AND deleted_at IS NULL
	`

	var profile model.Profile
	err := r.pool.QueryRow(ctx, query, sessionID, provider).Scan(
		&profile.ID,
		&profile.SessionID,
		&profile.Provider,
		&profile.Email,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// ListProfiles retrieves all live profiles for a session.
func (r *Repository) ListProfiles(ctx context.Context, sessionID string) ([]*model.Profile, error) {
	query := `
		SELECT id, session_id, provider, email, display_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE session_id = $1 AND deleted_at IS NULL
		ORDER BY provider
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		var profile model.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.SessionID,
			&profile.Provider,
			&profile.Email,
			&profile.DisplayName,
			&profile.AvatarURL,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// SoftDeleteProfile marks a profile as deleted when the platform disconnects.
func (r *Repository) SoftDeleteProfile(ctx context.Context, sessionID, provider string) error {
	query := `
		UPDATE profiles
		SET deleted_at = $3, updated_at = $3
		WHERE session_id = $1 AND provider = $2 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, sessionID, provider, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to soft delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}
