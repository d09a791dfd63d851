package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"venuebook/models"
	"venuebook/services/session"
)

// Doer sends a backend call; *session.Manager is the production Doer.
type Doer interface {
	Do(ctx context.Context, call session.Call) (*http.Response, error)
}

// Client wraps every booking backend endpoint.
type Client struct {
	doer Doer
	lang string
}

func NewClient(doer Doer, lang string) *Client {
	return &Client{doer: doer, lang: lang}
}

func (c *Client) SendOTP(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/auth/send-otp/", nil, models.SendOTPRequest{PhoneNumber: phone}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (models.TokenPair, error) {
	var tokens models.TokenPair
	err := c.do(ctx, http.MethodPost, "/auth/verify-otp/", nil, models.VerifyOTPRequest{PhoneNumber: phone, OTP: otp}, &tokens)
	if err == nil && tokens.Access == "" {
		err = &TransportError{Op: "POST /auth/verify-otp/", Err: errors.New("response carries no access token")}
	}
	return tokens, err
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me/", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateMe(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPatch, "/auth/me/", nil, upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListVenues(ctx context.Context, f models.VenueFilter) (*models.VenuePage, error) {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MinPrice != "" {
		q.Set("min_price", f.MinPrice)
	}
	if f.MaxPrice != "" {
		q.Set("max_price", f.MaxPrice)
	}
	var page models.VenuePage
	if err := c.do(ctx, http.MethodGet, "/venues/", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	var v models.Venue
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/venues/%d/", id), nil, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Availability(ctx context.Context, venueID int64, date string) (*models.Availability, error) {
	var av models.Availability
	q := url.Values{"date": {date}}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/venues/%d/availability/", venueID), q, nil, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

func (c *Client) ListBookings(ctx context.Context) (*models.BookingList, error) {
	var list models.BookingList
	if err := c.do(ctx, http.MethodGet, "/bookings/", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d/", id), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateBooking(ctx context.Context, in models.BookingCreate) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/", nil, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel/", id), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	op := method + " " + path
	call := session.Call{Method: method, Path: path, Query: query}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		call.Body = body
	}

	resp, err := c.doer.Do(ctx, call)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) && !errors.Is(err, session.ErrSessionExpired) {
			return &TransportError{Op: op, Err: err}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw, c.lang)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
