package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}

// Booking is a stay on one room by one user over a half-open date range
// [CheckInDate, CheckOutDate): the checkout day is not occupied.
type Booking struct {
	ID           int64
	RoomID       int64
	UserID       int64
	CheckInDate  time.Time
	CheckOutDate time.Time
}

// ToDate truncates t to its calendar day in UTC.
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether half-open ranges [aIn,aOut) and [bIn,bOut)
// intersect. A checkout and a check-in on the same day do not conflict.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// ValidateStay rejects inverted or empty ranges and stays touching the past.
// A checkout equal to today is allowed.
func ValidateStay(checkIn, checkOut, today time.Time) error {
	if !checkIn.Before(checkOut) {
		return fmt.Errorf("%w: check-in date must be before check-out date", ErrValidation)
	}
	if checkIn.Before(today) {
		return fmt.Errorf("%w: check-in date must not be in the past", ErrValidation)
	}
	if checkOut.Before(today) {
		return fmt.Errorf("%w: check-out date must not be in the past", ErrValidation)
	}
	return nil
}
