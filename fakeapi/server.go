// Package fakeapi is an in-process stand-in for the booking REST backend,
// used by tests and local development.
package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"venuebook/models"
)

const (
	// OTP is the code every phone number accepts.
	OTP = "123456"

	pageSize    = 10
	openingHour = 9
	closingHour = 22
)

type Server struct {
	mu sync.Mutex

	secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
	// BlacklistAfterRotation revokes a refresh token once it was exchanged.
	BlacklistAfterRotation bool

	users         map[int64]*models.User
	usersByPhone  map[string]int64
	venues        []models.Venue
	bookings      map[int64]*models.Booking
	nextUserID    int64
	nextVenueID   int64
	nextBookingID int64

	revoked      map[string]bool
	issuedAccess []string
	calls        map[string]int
}

func New(secret string) *Server {
	return &Server{
		secret:       []byte(secret),
		AccessTTL:    5 * time.Minute,
		RefreshTTL:   24 * time.Hour,
		Now:          time.Now,
		users:        make(map[int64]*models.User),
		usersByPhone: make(map[string]int64),
		bookings:     make(map[int64]*models.Booking),
		revoked:      make(map[string]bool),
		calls:        make(map[string]int),
	}
}

// Handler serves the backend under /api.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.count)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/send-otp/", s.sendOTP)
		auth.POST("/verify-otp/", s.verifyOTP)
		auth.POST("/refresh/", s.refresh)
		auth.GET("/me/", s.requireAuth, s.me)
		auth.PATCH("/me/", s.requireAuth, s.updateMe)

		api.GET("/venues/", s.listVenues)
		api.GET("/venues/:id/", s.getVenue)
		api.GET("/venues/:id/availability/", s.availability)

		bookings := api.Group("/bookings", s.requireAuth)
		bookings.GET("/", s.listBookings)
		bookings.POST("/", s.createBooking)
		bookings.GET("/:id/", s.getBooking)
		bookings.PATCH("/:id/cancel/", s.cancelBooking)
	}
	return r
}

func (s *Server) count(c *gin.Context) {
	c.Next()
	s.mu.Lock()
	s.calls[c.Request.Method+" "+c.FullPath()]++
	s.mu.Unlock()
}

// Calls reports how many requests hit the route, e.g. "POST /api/auth/refresh/".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// AddVenue stores v with a fresh ID and returns it.
func (s *Server) AddVenue(v models.Venue) models.Venue {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextVenueID++
	v.ID = s.nextVenueID
	now := s.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	s.venues = append(s.venues, v)
	return v
}

// SetBookingStatus lets tests move a booking along as staff would.
func (s *Server) SetBookingStatus(id int64, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if ok {
		b.Status = status
	}
	return ok
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func fieldError(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{field: []string{msg}})
}
