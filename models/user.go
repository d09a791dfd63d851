package models

import "time"

// User is the account behind a phone number.
type User struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserUpdate is the PATCH /auth/me/ body.
type UserUpdate struct {
	Name string `json:"name" binding:"max=255"`
}

// TokenPair is the access/refresh credential pair issued on OTP verification
// and on refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Empty reports whether neither token is present.
func (t TokenPair) Empty() bool { return t.Access == "" && t.Refresh == "" }

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}
