package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	venueRepo "venuebook/database/repository/venue"
	"venuebook/middleware"
	"venuebook/models"
	"venuebook/services/api"
)

func (hb *HandlerBundle) ListVenuesHandler(c *gin.Context) {
	var f models.VenueFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		invalidInput(c, err)
		return
	}
	_, client := hb.backend(c)
	page, err := client.ListVenues(c.Request.Context(), f)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetVenueHandler serves venue details from the cache when possible. Unknown
// venues are dropped from the cache in every language and send the browser
// back to the list.
func (hb *HandlerBundle) GetVenueHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	logger := getLogger(c)
	lang := langOf(c)

	venue, err := hb.Venues.Get(ctx, lang, id)
	if err == nil {
		c.JSON(http.StatusOK, venue)
		return
	}
	if !errors.Is(err, venueRepo.ErrCacheMiss) {
		logger.Warn("venue cache read failed", zap.Int64("venueID", id), zap.Error(err))
	}

	_, client := hb.backend(c)
	venue, err = client.GetVenue(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			if ierr := hb.Venues.Invalidate(ctx, id); ierr != nil {
				logger.Warn("venue cache invalidation failed", zap.Int64("venueID", id), zap.Error(ierr))
			}
		}
		hb.fail(c, err, "/venues")
		return
	}
	if err := hb.Venues.Set(ctx, lang, venue); err != nil {
		logger.Warn("venue cache write failed", zap.Int64("venueID", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, venue)
}

// AvailabilityHandler opens ?date= of the venue on the browser's board.
func (hb *HandlerBundle) AvailabilityHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	_, client := hb.backend(c)
	bs := middleware.CurrentSession(c)
	view, err := hb.Flow.OpenDate(c.Request.Context(), bs.ID, client, id, c.Query("date"))
	if err != nil {
		hb.fail(c, err, "/venues")
		return
	}
	c.JSON(http.StatusOK, view)
}
