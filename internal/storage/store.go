// Package storage provides abstractions for persisting session snapshots.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for session storage operations.
// The engine only defines the snapshot shape; a Store decides where it lives.
type Store interface {
	// CreateSession persists a new session.
	// The ID, Title (if empty) and timestamps are populated by the store.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its ID.
	// Returns ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession replaces the title and snapshot of an existing session.
	// Returns ErrNotFound if the session does not exist.
	UpdateSession(ctx context.Context, session *models.Session) error

	// DeleteSession removes a session.
	// Returns ErrNotFound if the session does not exist.
	DeleteSession(ctx context.Context, sessionID string) error

	// ListSessions returns summaries of all sessions, most recently updated first.
	ListSessions(ctx context.Context) ([]*models.SessionSummary, error)

	// Close releases any resources held by the store.
	Close() error
}
