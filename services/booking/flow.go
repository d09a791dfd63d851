package booking

import (
	"context"
	"time"

	sessionRepo "venuebook/database/repository/session"
	"venuebook/models"
	"venuebook/services/selection"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func (s *DefaultBookingFlowService) validateDate(date string) error {
	d, err := time.Parse(dateLayout, date)
	if err != nil || d.Format(dateLayout) != date {
		return &DateError{Date: date, Reason: "expected YYYY-MM-DD"}
	}
	if date < s.Now().Format(dateLayout) {
		return &DateError{Date: date, Reason: "date is in the past"}
	}
	return nil
}

// OpenDate clears the board for venueID/date and loads its availability. If
// another date was opened while the fetch was in flight, the response is
// dropped and the newer board is returned.
func (s *DefaultBookingFlowService) OpenDate(ctx context.Context, sessionID string, backend Backend, venueID int64, date string) (selection.View, error) {
	if err := s.validateDate(date); err != nil {
		return selection.View{}, err
	}

	var ticket selection.Ticket
	if _, err := s.Sessions.Update(ctx, sessionID, func(bs *sessionRepo.BrowserSession) error {
		ticket = bs.Board.Reset(venueID, date)
		return nil
	}); err != nil {
		return selection.View{}, err
	}

	av, fetchErr := backend.Availability(ctx, venueID, date)

	var stale bool
	updated, err := s.Sessions.Update(ctx, sessionID, func(bs *sessionRepo.BrowserSession) error {
		stale = false
		if fetchErr != nil {
			stale = !bs.Board.Fail(ticket)
			return nil
		}
		applied, err := bs.Board.Apply(ticket, *av)
		if err != nil {
			fetchErr = err
			bs.Board.Fail(ticket)
			return nil
		}
		stale = !applied
		return nil
	})
	if err != nil {
		return selection.View{}, err
	}

	logger := s.Logger.With(zap.Int64("venueID", venueID), zap.String("date", date))
	switch {
	case stale:
		logger.Debug("dropped superseded availability response")
	case fetchErr != nil:
		logger.Warn("availability fetch failed", zap.Error(fetchErr))
		return updated.Board.View(), fetchErr
	}
	return updated.Board.View(), nil
}

func (s *DefaultBookingFlowService) Click(ctx context.Context, sessionID, startTime string) (selection.View, error) {
	updated, err := s.Sessions.Update(ctx, sessionID, func(bs *sessionRepo.BrowserSession) error {
		_, err := bs.Board.Click(startTime)
		return err
	})
	if err != nil {
		return selection.View{}, err
	}
	return updated.Board.View(), nil
}

func (s *DefaultBookingFlowService) View(ctx context.Context, sessionID string) (selection.View, error) {
	bs, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return selection.View{}, err
	}
	return bs.Board.View(), nil
}

// Submit books the current selection. The board is cleared only if it still
// holds the submitted selection; a failed booking leaves it untouched.
func (s *DefaultBookingFlowService) Submit(ctx context.Context, sessionID string, backend Backend) (*models.Booking, error) {
	bs, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	board := bs.Board
	sel := board.Selection
	if !board.Loaded || sel.IsEmpty() {
		return nil, ErrNoSelection
	}

	in := models.BookingCreate{
		Venue:       board.VenueID,
		BookingDate: board.Date,
		StartTime:   sel.Start.WithSeconds(),
		EndTime:     sel.End.WithSeconds(),
	}
	booking, err := backend.CreateBooking(ctx, in)
	if err != nil {
		s.Logger.Info("booking rejected", zap.Int64("venueID", in.Venue), zap.String("selection", sel.String()), zap.Error(err))
		return nil, err
	}

	ticket := selection.Ticket{VenueID: board.VenueID, Date: board.Date, Generation: board.Generation}
	if _, err := s.Sessions.Update(ctx, sessionID, func(bs *sessionRepo.BrowserSession) error {
		if bs.Board.Current(ticket) && bs.Board.Selection == sel {
			bs.Board.Clear()
		}
		return nil
	}); err != nil {
		s.Logger.Error("failed to clear board after booking", zap.Int64("bookingID", booking.ID), zap.Error(err))
	}
	return booking, nil
}

func (s *DefaultBookingFlowService) Clear(ctx context.Context, sessionID string) error {
	_, err := s.Sessions.Update(ctx, sessionID, func(bs *sessionRepo.BrowserSession) error {
		bs.Board.Clear()
		return nil
	})
	return err
}
