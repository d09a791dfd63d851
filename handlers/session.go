package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sessionRepo "venuebook/database/repository/session"
	"venuebook/middleware"
)

type sessionInfo struct {
	Authenticated   bool       `json:"authenticated"`
	Lang            string     `json:"lang"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
}

// GetSessionHandler tells the browser whether it is logged in and in which
// language it is browsing.
func (hb *HandlerBundle) GetSessionHandler(c *gin.Context) {
	ctx := c.Request.Context()
	mgr, _ := hb.backend(c)

	authenticated, err := mgr.Authenticated(ctx)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	info := sessionInfo{Authenticated: authenticated, Lang: mgr.Lang()}
	// An unparsable token is left for the backend to reject.
	if exp, ok, err := mgr.Expiry(ctx); err == nil && ok {
		info.AccessExpiresAt = &exp
	}
	c.JSON(http.StatusOK, info)
}

type langInput struct {
	Lang string `json:"lang" binding:"required,oneof=uz ru en"`
}

// SetLangHandler switches the interface and backend language of the browser.
func (hb *HandlerBundle) SetLangHandler(c *gin.Context) {
	var in langInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidInput(c, err)
		return
	}
	bs := middleware.CurrentSession(c)
	if _, err := hb.Sessions.Update(c.Request.Context(), bs.ID, func(s *sessionRepo.BrowserSession) error {
		s.Lang = in.Lang
		return nil
	}); err != nil {
		hb.fail(c, err, "")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("lang", in.Lang, 365*24*3600, "/", "", hb.CookieSecure, false)
	c.JSON(http.StatusOK, gin.H{"lang": in.Lang})
}
