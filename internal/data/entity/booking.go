package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that still hold a slot.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// Booking is a room stay over [CheckIn, CheckOut). Dates are UTC midnight.
type Booking struct {
	Base
	Reference       string        `db:"reference"`
	UserID          uuid.UUID     `db:"user_id"`
	RoomID          uuid.UUID     `db:"room_id"`
	CheckIn         time.Time     `db:"check_in"`
	CheckOut        time.Time     `db:"check_out"`
	NumGuests       int           `db:"num_guests"`
	TotalCents      int64         `db:"total_cents"`
	Status          BookingStatus `db:"status"`
	SpecialRequests *string       `db:"special_requests"`
}
