package handlers

import (
	"context"

	sessionRepo "venuebook/database/repository/session"
	venueRepo "venuebook/database/repository/venue"
	"venuebook/middleware"
	"venuebook/services/api"
	"venuebook/services/booking"
	"venuebook/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the dependencies every browser endpoint shares.
type HandlerBundle struct {
	Sessions sessionRepo.SessionRepository
	Venues   venueRepo.VenueCache
	Flow     booking.BookingFlowService
	Backend  session.Config

	CookieSecure bool
	// Ping reports dependency health; nil means nothing to check.
	Ping func(ctx context.Context) map[string]bool
}

// backend builds the session manager and API client for the calling browser.
func (hb *HandlerBundle) backend(c *gin.Context) (*session.Manager, *api.Client) {
	bs := middleware.CurrentSession(c)
	cfg := hb.Backend
	cfg.Logger = getLogger(c)
	mgr := session.New(cfg, sessionRepo.TokenBinding{Repo: hb.Sessions, ID: bs.ID}, bs.Lang)
	return mgr, api.NewClient(mgr, bs.Lang)
}

func langOf(c *gin.Context) string {
	if bs := middleware.CurrentSession(c); bs != nil {
		return bs.Lang
	}
	return "uz"
}
