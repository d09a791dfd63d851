package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"venuebook/models"
)

const refreshPath = "/auth/refresh/"

// Config is shared by every Manager of a process.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Call is one logical backend request. It is rebuilt from these fields for
// the replay after a refresh.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Manager sends backend calls on behalf of one client session: it attaches
// the bearer token and language, and on a 401 refreshes the token pair once
// and replays the call.
type Manager struct {
	cfg    Config
	tokens TokenStore
	lang   string
}

func New(cfg Config, tokens TokenStore, lang string) *Manager {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Manager{cfg: cfg, tokens: tokens, lang: lang}
}

func (m *Manager) Lang() string { return m.lang }

// Do sends call. Any response other than a first 401 is returned as is,
// including the 401 itself when there is no refresh token to try. A failed
// refresh clears the stored tokens and returns ErrSessionExpired, unless a
// parallel call already stored a newer pair, which is then used for the
// replay. A cancelled ctx never clears the tokens.
func (m *Manager) Do(ctx context.Context, call Call) (*http.Response, error) {
	tokens, err := m.tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	resp, err := m.send(ctx, call, tokens.Access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// From here on the call counts as retried: whatever the replay returns
	// goes back to the caller.
	if tokens.Refresh == "" {
		return resp, nil
	}
	drain(resp)

	fresh, err := m.refresh(ctx, tokens.Refresh)
	if err != nil {
		// A caller that went away has not proven the session dead.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("refresh interrupted: %w", ctxErr)
		}
		current, cleared, cerr := m.tokens.ClearIfRefresh(ctx, tokens.Refresh)
		if cerr != nil {
			m.cfg.Logger.Error("failed to clear tokens", zap.Error(cerr))
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		if !cleared && current.Access != "" {
			// A parallel call of this session refreshed first.
			m.cfg.Logger.Debug("refresh lost to a parallel call, replaying with its tokens",
				zap.String("path", call.Path), zap.Error(err))
			return m.send(ctx, call, current.Access)
		}
		m.cfg.Logger.Info("token refresh failed, ending session",
			zap.String("path", call.Path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	// The backend may have rotated the refresh token; losing the new pair to
	// a cancelled request would end the session.
	if err := m.tokens.Save(context.WithoutCancel(ctx), fresh); err != nil {
		return nil, fmt.Errorf("save refreshed tokens: %w", err)
	}
	m.cfg.Logger.Debug("access token refreshed, replaying", zap.String("path", call.Path))

	return m.send(ctx, call, fresh.Access)
}

func (m *Manager) send(ctx context.Context, call Call, access string) (*http.Response, error) {
	target := m.cfg.BaseURL + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}
	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if m.lang != "" {
		req.Header.Set("Accept-Language", m.lang)
	}
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return m.cfg.HTTPClient.Do(req)
}

// refresh posts the refresh token outside of Do so that a 401 from the
// refresh endpoint is never intercepted.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return models.TokenPair{}, &RefreshError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return models.TokenPair{}, &RefreshError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if m.lang != "" {
		req.Header.Set("Accept-Language", m.lang)
	}

	resp, err := m.cfg.HTTPClient.Do(req)
	if err != nil {
		return models.TokenPair{}, &RefreshError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.TokenPair{}, &RefreshError{Status: resp.StatusCode}
	}

	var fresh models.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&fresh); err != nil {
		return models.TokenPair{}, &RefreshError{Err: fmt.Errorf("decode refresh response: %w", err)}
	}
	if fresh.Access == "" {
		return models.TokenPair{}, &RefreshError{Err: fmt.Errorf("refresh response has no access token")}
	}
	// Backends that do not rotate refresh tokens omit the field.
	if fresh.Refresh == "" {
		fresh.Refresh = refreshToken
	}
	return fresh, nil
}

// Authenticated reports whether any token is stored.
func (m *Manager) Authenticated(ctx context.Context) (bool, error) {
	tokens, err := m.tokens.Load(ctx)
	if err != nil {
		return false, err
	}
	return !tokens.Empty(), nil
}

// Login stores the pair issued by OTP verification.
func (m *Manager) Login(ctx context.Context, tokens models.TokenPair) error {
	return m.tokens.Save(ctx, tokens)
}

// Logout forgets both tokens.
func (m *Manager) Logout(ctx context.Context) error {
	return m.tokens.Clear(ctx)
}

// Expiry reads the exp claim of the stored access token. The signature is not
// checked; the backend stays the only judge of validity. ok is false when
// there is no token or it carries no expiry.
func (m *Manager) Expiry(ctx context.Context) (exp time.Time, ok bool, err error) {
	tokens, err := m.tokens.Load(ctx)
	if err != nil || tokens.Access == "" {
		return time.Time{}, false, err
	}
	return AccessExpiry(tokens.Access)
}

// AccessExpiry extracts exp from an unverified JWT.
func AccessExpiry(token string) (time.Time, bool, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("parse access token: %w", err)
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true, nil
	case json.Number:
		v, err := exp.Int64()
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse exp claim: %w", err)
		}
		return time.Unix(v, 0), true, nil
	}
	return time.Time{}, false, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
