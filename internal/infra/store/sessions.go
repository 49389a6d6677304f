// Package store persists session state in an embedded sqlite database.
// This is the gateway's only durable local state: the token pair and the
// cached identity that let a client reload without re-authenticating.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// SessionStore wraps the sqlite connection.
type SessionStore struct {
	db *sql.DB
}

// Open initializes the database connection and schema.
func Open(dbPath string) (*SessionStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id             TEXT PRIMARY KEY,
			provider_token TEXT NOT NULL DEFAULT '',
			backend_token  TEXT NOT NULL DEFAULT '',
			refresh_token  TEXT NOT NULL DEFAULT '',
			identity       TEXT NOT NULL,
			phase          TEXT NOT NULL,
			updated_at     TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create session schema: %w", err)
	}

	return &SessionStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// Get loads a session. Returns nil, nil when the session does not exist.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, provider_token, backend_token, refresh_token, identity, phase, updated_at
		FROM sessions WHERE id = ?`, sessionID)

	var (
		sess         domain.Session
		identityJSON string
	)
	err := row.Scan(&sess.ID, &sess.Tokens.ProviderToken, &sess.Tokens.BackendToken,
		&sess.RefreshToken, &identityJSON, &sess.Phase, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := json.Unmarshal([]byte(identityJSON), &sess.Identity); err != nil {
		return nil, fmt.Errorf("decode session identity: %w", err)
	}
	return &sess, nil
}

// Put writes the session row as a unit: identity, both tokens and phase
// land in one statement so a reader never sees a half-updated pair.
func (s *SessionStore) Put(ctx context.Context, sess *domain.Session) error {
	identityJSON, err := json.Marshal(sess.Identity)
	if err != nil {
		return fmt.Errorf("encode session identity: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, provider_token, backend_token, refresh_token, identity, phase, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provider_token = excluded.provider_token,
			backend_token  = excluded.backend_token,
			refresh_token  = excluded.refresh_token,
			identity       = excluded.identity,
			phase          = excluded.phase,
			updated_at     = excluded.updated_at`,
		sess.ID, sess.Tokens.ProviderToken, sess.Tokens.BackendToken, sess.RefreshToken,
		string(identityJSON), string(sess.Phase), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Delete removes the session row. Identity and both tokens go together.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Pair reads only the token pair for a session. Pure read; a missing
// session yields an empty pair so the request proceeds unauthenticated.
func (s *SessionStore) Pair(ctx context.Context, sessionID string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	row := s.db.QueryRowContext(ctx, `
		SELECT provider_token, backend_token FROM sessions WHERE id = ?`, sessionID)
	err := row.Scan(&pair.ProviderToken, &pair.BackendToken)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TokenPair{}, nil
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("load token pair: %w", err)
	}
	return pair, nil
}

// PurgeOlderThan removes sessions not touched since the cutoff.
func (s *SessionStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
