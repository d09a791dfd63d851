package sessionRepo

import (
	"context"
	"errors"
	"time"

	"venuebook/models"
	"venuebook/services/selection"
)

var ErrNotFound = errors.New("browser session not found")

// BrowserSession is everything the server remembers about one browser.
type BrowserSession struct {
	ID        string           `json:"id"`
	Tokens    models.TokenPair `json:"tokens"`
	Lang      string           `json:"lang"`
	Board     selection.Board  `json:"board"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SessionRepository defines browser session storage.
type SessionRepository interface {
	// Create stores a fresh session with a new ID.
	Create(ctx context.Context, lang string) (*BrowserSession, error)
	// Get returns ErrNotFound for unknown or expired IDs.
	Get(ctx context.Context, id string) (*BrowserSession, error)
	// Update applies fn to the stored session atomically; if fn returns an
	// error nothing is written.
	Update(ctx context.Context, id string, fn func(*BrowserSession) error) (*BrowserSession, error)
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}
