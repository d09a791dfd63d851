package session

import (
	"errors"
	"fmt"
)

// ErrSessionExpired means the refresh token was rejected and both tokens were
// cleared; the client has to log in again.
var ErrSessionExpired = errors.New("session expired")

// RefreshError describes why a refresh attempt failed.
type RefreshError struct {
	Status int
	Err    error
}

func (e *RefreshError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("token refresh rejected with status %d", e.Status)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }
