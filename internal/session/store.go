// Package session stores per-browser platform connections in Redis, keyed by
// the sid cookie. Sessions are anonymous: a session exists as soon as a
// browser starts an OAuth flow and holds whichever provider tokens the user
// has granted.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulseboard/pulseboard/internal/model"
)

const (
	keyPrefix = "session:"

	// DefaultTTL matches the sid cookie lifetime. Every write refreshes it.
	DefaultTTL = 30 * 24 * time.Hour

	idBytes = 16
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Store reads and writes sessions in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Store on the given Redis client. A zero ttl selects
// DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// NewID generates a session ID: 16 random bytes, hex encoded.
func NewID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Get loads the session for the given ID. Returns ErrNotFound when absent or
// expired.
func (s *Store) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save persists the session and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sess *model.Session) error {
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SetToken stores a provider token on the session, creating the session if it
// does not exist yet. Provider is "google" or "instagram".
func (s *Store) SetToken(ctx context.Context, id, provider string, token *model.OAuthToken) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		sess = &model.Session{ID: id}
	}

	switch provider {
	case "google":
		sess.Google = token
	case "instagram":
		sess.Instagram = token
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	return s.Save(ctx, sess)
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
