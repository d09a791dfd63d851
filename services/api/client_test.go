package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/models"
	"venuebook/services/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, tokens models.TokenPair) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m := session.New(session.Config{BaseURL: srv.URL, HTTPClient: srv.Client()}, session.NewMemoryStore(tokens), "uz")
	return NewClient(m, "uz")
}

func TestListVenuesForwardsFilters(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/venues/", r.URL.Path)
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":7,"name":"Arena","price_per_hour":"120000.00","amenities":["shower"]}]}`))
	}, models.TokenPair{})

	page, err := c.ListVenues(context.Background(), models.VenueFilter{Page: 2, Search: "arena", MaxPrice: "150000"})
	require.NoError(t, err)
	assert.Equal(t, "max_price=150000&page=2&search=arena", query)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(120000), page.Results[0].PricePerHour.Units())
}

func TestAvailability(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/venues/3/availability/", r.URL.Path)
		assert.Equal(t, "2026-10-20", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"date":"2026-10-20","price_per_hour":"100000.00","slots":[{"start_time":"09:00","end_time":"10:00","is_available":true}]}`))
	}, models.TokenPair{})

	av, err := c.Availability(context.Background(), 3, "2026-10-20")
	require.NoError(t, err)
	require.Len(t, av.Slots, 1)
	assert.True(t, av.Slots[0].IsAvailable)
}

func TestCreateBookingSendsPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
		var in models.BookingCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, models.BookingCreate{Venue: 3, BookingDate: "2026-10-20", StartTime: "09:00:00", EndTime: "11:00:00"}, in)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":41,"venue":3,"total_price":"200000.00","status":"pending"}`))
	}, models.TokenPair{Access: "acc", Refresh: "ref"})

	b, err := c.CreateBooking(context.Background(), models.BookingCreate{Venue: 3, BookingDate: "2026-10-20", StartTime: "09:00:00", EndTime: "11:00:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(41), b.ID)
	assert.Equal(t, int64(200000), b.TotalPrice.Units())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"non field errors", 400, `{"non_field_errors":["This time slot is already booked. Please choose a different time."]}`, "This time slot is already booked. Please choose a different time."},
		{"detail", 400, `{"detail":"Only pending or confirmed bookings can be cancelled."}`, "Only pending or confirmed bookings can be cancelled."},
		{"field error", 400, `{"phone_number":["Enter a valid phone number."]}`, "Enter a valid phone number."},
		{"first field sorted", 400, `{"start_time":["late"],"end_time":["early"]}`, "early"},
		{"unknown shape", 400, `{"code":12}`, `{"code":12}`},
		{"empty object", 500, `{}`, "Xatolik yuz berdi"},
		{"html page", 500, `<html>Server Error</html>`, "Xatolik yuz berdi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newError(tt.status, []byte(tt.body), "uz")
			assert.Equal(t, tt.want, e.Message)
			assert.Equal(t, tt.status, e.Status)
		})
	}
}

func TestFieldErrorsAreKept(t *testing.T) {
	e := newError(400, []byte(`{"end_time":"End time must be after start time."}`), "en")
	assert.Equal(t, []string{"End time must be after start time."}, e.Fields["end_time"])
}

func TestNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}, models.TokenPair{})

	_, err := c.GetBooking(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := session.New(session.Config{BaseURL: url}, session.NewMemoryStore(models.TokenPair{}), "en")
	_, err := NewClient(m, "en").ListVenues(context.Background(), models.VenueFilter{})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestSessionExpiredPassesThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, models.TokenPair{Access: "old", Refresh: "old"})

	_, err := c.ListBookings(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrSessionExpired))
	assert.False(t, IsTransport(err))
}

func TestVerifyOTPRequiresAccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, models.TokenPair{})

	_, err := c.VerifyOTP(context.Background(), "+998901234567", "123456")
	assert.True(t, IsTransport(err))
}
