package sessionRepo

import (
	"context"

	"venuebook/models"
)

// TokenBinding exposes the token pair of one stored browser session to the
// session manager.
type TokenBinding struct {
	Repo SessionRepository
	ID   string
}

func (b TokenBinding) Load(ctx context.Context) (models.TokenPair, error) {
	s, err := b.Repo.Get(ctx, b.ID)
	if err != nil {
		return models.TokenPair{}, err
	}
	return s.Tokens, nil
}

func (b TokenBinding) Save(ctx context.Context, tokens models.TokenPair) error {
	_, err := b.Repo.Update(ctx, b.ID, func(s *BrowserSession) error {
		s.Tokens = tokens
		return nil
	})
	return err
}

func (b TokenBinding) Clear(ctx context.Context) error {
	return b.Save(ctx, models.TokenPair{})
}

// ClearIfRefresh clears the pair in one atomic update, unless another request
// has already stored a different refresh token.
func (b TokenBinding) ClearIfRefresh(ctx context.Context, refresh string) (models.TokenPair, bool, error) {
	var cleared bool
	s, err := b.Repo.Update(ctx, b.ID, func(s *BrowserSession) error {
		cleared = s.Tokens.Refresh == refresh
		if cleared {
			s.Tokens = models.TokenPair{}
		}
		return nil
	})
	if err != nil {
		return models.TokenPair{}, false, err
	}
	return s.Tokens, cleared, nil
}
