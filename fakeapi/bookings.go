package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"venuebook/models"
)

// minutes parses "HH:MM" or "HH:MM:SS" into minutes after midnight.
func minutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("bad time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad time %q", s)
	}
	return h*60 + m, nil
}

func blocking(status string) bool {
	return status == models.BookingPending || status == models.BookingConfirmed
}

// overlaps must be called with s.mu held.
func (s *Server) overlaps(venueID int64, date string, start, end int) bool {
	for _, b := range s.bookings {
		if b.Venue != venueID || b.BookingDate != date || !blocking(b.Status) {
			continue
		}
		bs, _ := minutes(b.StartTime)
		be, _ := minutes(b.EndTime)
		if start < be && end > bs {
			return true
		}
	}
	return false
}

func (s *Server) createBooking(c *gin.Context) {
	var in models.BookingCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	start, err := minutes(in.StartTime)
	if err != nil {
		fieldError(c, "start_time", "Time has wrong format.")
		return
	}
	end, err := minutes(in.EndTime)
	if err != nil {
		fieldError(c, "end_time", "Time has wrong format.")
		return
	}
	switch {
	case end <= start:
		fieldError(c, "end_time", "End time must be after start time.")
		return
	case start < openingHour*60:
		fieldError(c, "start_time", fmt.Sprintf("Bookings are only allowed from %d:00.", openingHour))
		return
	case end > closingHour*60:
		fieldError(c, "end_time", fmt.Sprintf("Bookings are only allowed until %d:00.", closingHour))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var venue *models.Venue
	for i := range s.venues {
		if s.venues[i].ID == in.Venue {
			venue = &s.venues[i]
		}
	}
	if venue == nil || !venue.IsActive {
		fieldError(c, "venue", "This venue is not available for booking.")
		return
	}
	if s.overlaps(in.Venue, in.BookingDate, start, end) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"non_field_errors": []string{"This time slot is already booked. Please choose a different time."},
		})
		return
	}

	s.nextBookingID++
	now := s.Now()
	v := *venue
	b := &models.Booking{
		ID:          s.nextBookingID,
		User:        c.GetInt64(userIDKey),
		Venue:       in.Venue,
		VenueDetail: &v,
		BookingDate: in.BookingDate,
		StartTime:   fmt.Sprintf("%02d:%02d:00", start/60, start%60),
		EndTime:     fmt.Sprintf("%02d:%02d:00", end/60, end%60),
		TotalPrice:  (venue.PricePerHour*models.Amount(end-start) + 30) / 60,
		Status:      models.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.bookings[b.ID] = b
	c.JSON(http.StatusCreated, b)
}

func (s *Server) listBookings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := c.GetInt64(userIDKey)
	results := []models.Booking{}
	for _, b := range s.bookings {
		if b.User == user {
			results = append(results, *b)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	c.JSON(http.StatusOK, models.BookingList{Count: len(results), Results: results})
}

// own returns the caller's booking named by :id. Must be called with s.mu held.
func (s *Server) own(c *gin.Context) (*models.Booking, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		if b, ok := s.bookings[id]; ok && b.User == c.GetInt64(userIDKey) {
			return b, true
		}
	}
	detail(c, http.StatusNotFound, "Not found.")
	return nil, false
}

func (s *Server) getBooking(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.own(c); ok {
		c.JSON(http.StatusOK, b)
	}
}

func (s *Server) cancelBooking(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.own(c)
	if !ok {
		return
	}
	if !blocking(b.Status) {
		detail(c, http.StatusBadRequest, "Only pending or confirmed bookings can be cancelled.")
		return
	}
	b.Status = models.BookingCancelled
	b.UpdatedAt = s.Now()
	c.JSON(http.StatusOK, b)
}
