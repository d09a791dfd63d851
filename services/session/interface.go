package session

import (
	"context"

	"venuebook/models"
)

// TokenStore persists the access/refresh pair of one client session.
type TokenStore interface {
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, tokens models.TokenPair) error
	Clear(ctx context.Context) error
	// ClearIfRefresh clears both tokens only while refresh is still the
	// stored refresh token. Otherwise it leaves the store alone and returns
	// what is stored.
	ClearIfRefresh(ctx context.Context, refresh string) (current models.TokenPair, cleared bool, err error)
}
