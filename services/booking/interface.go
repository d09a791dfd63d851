package booking

import (
	"context"
	"time"

	sessionRepo "venuebook/database/repository/session"
	"venuebook/models"
	"venuebook/services/selection"

	"go.uber.org/zap"
)

// Backend is the part of the booking API the flow needs.
type Backend interface {
	Availability(ctx context.Context, venueID int64, date string) (*models.Availability, error)
	CreateBooking(ctx context.Context, in models.BookingCreate) (*models.Booking, error)
}

// BookingFlowService drives the per-browser slot board from opening a date
// to submitting the booking.
type BookingFlowService interface {
	OpenDate(ctx context.Context, sessionID string, backend Backend, venueID int64, date string) (selection.View, error)
	Click(ctx context.Context, sessionID, startTime string) (selection.View, error)
	View(ctx context.Context, sessionID string) (selection.View, error)
	Submit(ctx context.Context, sessionID string, backend Backend) (*models.Booking, error)
	Clear(ctx context.Context, sessionID string) error
}

// DefaultBookingFlowService implements BookingFlowService on a session repository.
type DefaultBookingFlowService struct {
	Sessions sessionRepo.SessionRepository
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewBookingFlowService(sessions sessionRepo.SessionRepository, logger *zap.Logger) *DefaultBookingFlowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingFlowService{Sessions: sessions, Logger: logger, Now: time.Now}
}
