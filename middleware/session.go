package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sessionRepo "venuebook/database/repository/session"
	"venuebook/utils"
)

const browserSessionKey = "browserSession"

// SessionOptions configures the browser session cookie.
type SessionOptions struct {
	CookieName  string
	TTL         time.Duration
	Secure      bool
	DefaultLang string
}

// BrowserSession loads the session named by the cookie, creating one (with a
// language negotiated from Accept-Language) when the cookie is missing or
// the session expired.
func BrowserSession(repo sessionRepo.SessionRepository, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := loggerFrom(c)
		ctx := c.Request.Context()

		var bs *sessionRepo.BrowserSession
		if id, err := c.Cookie(opts.CookieName); err == nil && id != "" {
			bs, err = repo.Get(ctx, id)
			if err != nil && !errors.Is(err, sessionRepo.ErrNotFound) {
				logger.Error("failed to load browser session", zap.Error(err))
				utils.JSONError(c, http.StatusServiceUnavailable, "Session store unavailable", "")
				return
			}
		}

		if bs == nil {
			lang := utils.NegotiateLang(c.GetHeader("Accept-Language"), opts.DefaultLang)
			created, err := repo.Create(ctx, lang)
			if err != nil {
				logger.Error("failed to create browser session", zap.Error(err))
				utils.JSONError(c, http.StatusServiceUnavailable, "Session store unavailable", "")
				return
			}
			bs = created
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.CookieName, bs.ID, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
		c.Set(browserSessionKey, bs)
		c.Next()
	}
}

// CurrentSession returns the session loaded by BrowserSession.
func CurrentSession(c *gin.Context) *sessionRepo.BrowserSession {
	if v, ok := c.Get(browserSessionKey); ok {
		if bs, ok := v.(*sessionRepo.BrowserSession); ok {
			return bs
		}
	}
	return nil
}

// RequireLogin sends callers without tokens to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		bs := CurrentSession(c)
		if bs == nil || bs.Tokens.Empty() {
			utils.Redirect(c, http.StatusUnauthorized, "Login required", "/login")
			return
		}
		c.Next()
	}
}
