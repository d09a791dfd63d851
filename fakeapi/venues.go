package fakeapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"venuebook/models"
)

func (s *Server) listVenues(c *gin.Context) {
	var f models.VenueFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	var minPrice, maxPrice models.Amount
	var err error
	if f.MinPrice != "" {
		if minPrice, err = models.ParseAmount(f.MinPrice); err != nil {
			fieldError(c, "min_price", "Enter a number.")
			return
		}
	}
	if f.MaxPrice != "" {
		if maxPrice, err = models.ParseAmount(f.MaxPrice); err != nil {
			fieldError(c, "max_price", "Enter a number.")
			return
		}
	}

	s.mu.Lock()
	var matched []models.Venue
	search := strings.ToLower(f.Search)
	// Newest first.
	for i := len(s.venues) - 1; i >= 0; i-- {
		v := s.venues[i]
		switch {
		case !v.IsActive:
		case search != "" && !strings.Contains(strings.ToLower(v.Name), search):
		case f.MinPrice != "" && v.PricePerHour < minPrice:
		case f.MaxPrice != "" && v.PricePerHour > maxPrice:
		default:
			matched = append(matched, v)
		}
	}
	s.mu.Unlock()

	page := f.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > 0 && start >= len(matched) {
		detail(c, http.StatusNotFound, "Invalid page.")
		return
	}
	end := min(start+pageSize, len(matched))

	out := models.VenuePage{Count: len(matched), Results: matched[start:end]}
	if out.Results == nil {
		out.Results = []models.Venue{}
	}
	if end < len(matched) {
		next := pageURL(c, page+1)
		out.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		out.Previous = &prev
	}
	c.JSON(http.StatusOK, out)
}

func pageURL(c *gin.Context, page int) string {
	q := url.Values{}
	for k, v := range c.Request.URL.Query() {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("http://%s%s?%s", c.Request.Host, c.Request.URL.Path, q.Encode())
}

// venue returns the active venue named by the :id param.
func (s *Server) venue(c *gin.Context) (models.Venue, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, v := range s.venues {
			if v.ID == id && v.IsActive {
				return v, true
			}
		}
	}
	detail(c, http.StatusNotFound, "Not found.")
	return models.Venue{}, false
}

func (s *Server) getVenue(c *gin.Context) {
	if v, ok := s.venue(c); ok {
		c.JSON(http.StatusOK, v)
	}
}

// availability lists the hourly slots between opening and closing; a slot is
// taken when it overlaps a pending or confirmed booking.
func (s *Server) availability(c *gin.Context) {
	v, ok := s.venue(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		fieldError(c, "date", "This field is required.")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		fieldError(c, "date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make([]models.Slot, 0, closingHour-openingHour)
	for h := openingHour; h < closingHour; h++ {
		start, end := h*60, (h+1)*60
		slots = append(slots, models.Slot{
			StartTime:   fmt.Sprintf("%02d:00", h),
			EndTime:     fmt.Sprintf("%02d:00", h+1),
			IsAvailable: !s.overlaps(v.ID, date, start, end),
		})
	}
	c.JSON(http.StatusOK, models.Availability{
		VenueID:      v.ID,
		VenueName:    v.Name,
		Date:         date,
		PricePerHour: v.PricePerHour,
		Slots:        slots,
	})
}
