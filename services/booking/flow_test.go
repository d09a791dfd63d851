package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	sessionRepo "venuebook/database/repository/session"
	"venuebook/models"
	"venuebook/services/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	availability func(venueID int64, date string) (*models.Availability, error)
	created      []models.BookingCreate
	createErr    error
}

func (f *fakeBackend) Availability(_ context.Context, venueID int64, date string) (*models.Availability, error) {
	return f.availability(venueID, date)
}

func (f *fakeBackend) CreateBooking(_ context.Context, in models.BookingCreate) (*models.Booking, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Booking{ID: 42, Venue: in.Venue, BookingDate: in.BookingDate, StartTime: in.StartTime, EndTime: in.EndTime, Status: models.BookingPending}, nil
}

func scenarioDay(_ int64, date string) (*models.Availability, error) {
	return &models.Availability{
		Date:         date,
		PricePerHour: 100000,
		Slots: []models.Slot{
			{StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
			{StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
			{StartTime: "11:00", EndTime: "12:00", IsAvailable: false},
		},
	}, nil
}

func newFlow(t *testing.T) (*DefaultBookingFlowService, string) {
	t.Helper()
	repo := sessionRepo.NewMemorySessionRepo(time.Hour)
	bs, err := repo.Create(context.Background(), "uz")
	require.NoError(t, err)

	svc := NewBookingFlowService(repo, zap.NewNop())
	svc.Now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	return svc, bs.ID
}

func TestOpenDateClickAndSubmit(t *testing.T) {
	svc, id := newFlow(t)
	ctx := context.Background()
	backend := &fakeBackend{availability: scenarioDay}

	view, err := svc.OpenDate(ctx, id, backend, 7, "2026-10-20")
	require.NoError(t, err)
	assert.True(t, view.Loaded)
	assert.Len(t, view.Slots, 3)
	assert.Equal(t, selection.KindEmpty, view.Kind)

	_, err = svc.Click(ctx, id, "09:00")
	require.NoError(t, err)
	view, err = svc.Click(ctx, id, "10:00")
	require.NoError(t, err)
	assert.Equal(t, selection.KindRange, view.Kind)
	assert.Equal(t, "09:00", view.Start)
	assert.Equal(t, "11:00", view.End)
	assert.Equal(t, models.Amount(200000), view.TotalPrice)

	view, err = svc.Click(ctx, id, "11:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", view.Start, "unavailable click is a no-op")

	booking, err := svc.Submit(ctx, id, backend)
	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	require.Len(t, backend.created, 1)
	assert.Equal(t, models.BookingCreate{Venue: 7, BookingDate: "2026-10-20", StartTime: "09:00:00", EndTime: "11:00:00"}, backend.created[0])

	view, err = svc.View(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.Loaded)
	assert.Equal(t, selection.KindEmpty, view.Kind)
}

func TestSubmitFailureKeepsSelection(t *testing.T) {
	svc, id := newFlow(t)
	ctx := context.Background()
	backend := &fakeBackend{availability: scenarioDay, createErr: errors.New("slot taken")}

	_, err := svc.OpenDate(ctx, id, backend, 7, "2026-10-20")
	require.NoError(t, err)
	_, err = svc.Click(ctx, id, "10:00")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, id, backend)
	assert.EqualError(t, err, "slot taken")

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, selection.KindSingle, view.Kind)
	assert.Equal(t, "10:00", view.Start)
}

func TestSubmitRequiresSelection(t *testing.T) {
	svc, id := newFlow(t)
	backend := &fakeBackend{availability: scenarioDay}

	_, err := svc.Submit(context.Background(), id, backend)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = svc.OpenDate(context.Background(), id, backend, 7, "2026-10-20")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), id, backend)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, backend.created)
}

func TestOpenDateValidation(t *testing.T) {
	svc, id := newFlow(t)
	backend := &fakeBackend{availability: scenarioDay}

	for _, date := range []string{"20-10-2026", "2026-13-01", "2026-10-14", ""} {
		_, err := svc.OpenDate(context.Background(), id, backend, 7, date)
		assert.True(t, IsDateError(err), date)
	}

	_, err := svc.OpenDate(context.Background(), id, backend, 7, "2026-10-15")
	assert.NoError(t, err, "today is bookable")
}

func TestOpenDateFetchFailure(t *testing.T) {
	svc, id := newFlow(t)
	boom := errors.New("backend down")
	backend := &fakeBackend{availability: func(int64, string) (*models.Availability, error) { return nil, boom }}

	view, err := svc.OpenDate(context.Background(), id, backend, 7, "2026-10-20")
	assert.ErrorIs(t, err, boom)
	assert.True(t, view.Loaded)
	assert.Empty(t, view.Slots)
}

func TestOpenDateDropsSupersededResponse(t *testing.T) {
	svc, id := newFlow(t)
	ctx := context.Background()

	// While the fetch for the 20th is in flight the browser opens the 21st.
	var backend *fakeBackend
	backend = &fakeBackend{availability: func(venueID int64, date string) (*models.Availability, error) {
		if date == "2026-10-20" {
			backend.availability = scenarioDay
			_, err := svc.OpenDate(ctx, id, backend, venueID, "2026-10-21")
			require.NoError(t, err)
		}
		return scenarioDay(venueID, date)
	}}

	view, err := svc.OpenDate(ctx, id, backend, 7, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-21", view.Date)

	view, err = svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-21", view.Date)
	assert.True(t, view.Loaded)
}

func TestClickErrors(t *testing.T) {
	svc, id := newFlow(t)
	ctx := context.Background()

	_, err := svc.Click(ctx, id, "09:00")
	assert.ErrorIs(t, err, selection.ErrNotLoaded)

	_, err = svc.OpenDate(ctx, id, &fakeBackend{availability: scenarioDay}, 7, "2026-10-20")
	require.NoError(t, err)
	_, err = svc.Click(ctx, id, "13:00")
	assert.ErrorIs(t, err, selection.ErrUnknownSlot)

	_, err = svc.Click(ctx, "missing", "09:00")
	assert.ErrorIs(t, err, sessionRepo.ErrNotFound)
}

func TestClear(t *testing.T) {
	svc, id := newFlow(t)
	ctx := context.Background()

	_, err := svc.OpenDate(ctx, id, &fakeBackend{availability: scenarioDay}, 7, "2026-10-20")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, id))

	view, err := svc.View(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.Loaded)
	assert.Zero(t, view.VenueID)
}
