package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"venuebook/middleware"
)

// CreateBookingHandler books the range selected on the board.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	_, client := hb.backend(c)
	booking, err := hb.Flow.Submit(c.Request.Context(), middleware.CurrentSession(c).ID, client)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	getLogger(c).Info("booking created", zap.Int64("bookingID", booking.ID), zap.Int64("venueID", booking.Venue))
	c.JSON(http.StatusCreated, booking)
}

func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	_, client := hb.backend(c)
	list, err := client.ListBookings(c.Request.Context())
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	_, client := hb.backend(c)
	booking, err := client.GetBooking(c.Request.Context(), id)
	if err != nil {
		hb.fail(c, err, "/my-bookings")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBookingHandler cancels a pending or confirmed booking. Other
// statuses are refused without calling the backend's cancel endpoint.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	_, client := hb.backend(c)

	current, err := client.GetBooking(ctx, id)
	if err != nil {
		hb.fail(c, err, "/my-bookings")
		return
	}
	if !current.Cancellable() {
		badRequest(c, tr(msgNotCancellable, langOf(c)), "status "+current.Status)
		return
	}

	booking, err := client.CancelBooking(ctx, id)
	if err != nil {
		hb.fail(c, err, "/my-bookings")
		return
	}
	getLogger(c).Info("booking cancelled", zap.Int64("bookingID", id))
	c.JSON(http.StatusOK, booking)
}
