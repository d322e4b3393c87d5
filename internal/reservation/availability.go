package reservation

import (
	"context"
	"fmt"
	"time"

	"resort-booking/internal/data/entity"

	"github.com/google/uuid"
)

// RoomBookingFinder returns active bookings of a room that may touch
// [from, to). Implementations may over-return; the checker filters again.
type RoomBookingFinder interface {
	FindActiveByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Booking, error)
}

// AvailabilityChecker answers whether a room is free for a date range. It
// must be given a finder bound to the same transaction as the write that
// follows; it never caches.
type AvailabilityChecker struct {
	bookings RoomBookingFinder
}

func NewAvailabilityChecker(bookings RoomBookingFinder) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings}
}

// IsRoomAvailable is true iff no active booking other than excludeBookingID
// overlaps [checkIn, checkOut).
func (c *AvailabilityChecker) IsRoomAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	conflict, err := c.ConflictingRoomBooking(ctx, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

// ConflictingRoomBooking returns the first active booking overlapping the range, or nil.
func (c *AvailabilityChecker) ConflictingRoomBooking(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeBookingID *uuid.UUID) (*entity.Booking, error) {
	if err := ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	existing, err := c.bookings.FindActiveByRoom(ctx, roomID, NormalizeDate(checkIn), NormalizeDate(checkOut))
	if err != nil {
		return nil, fmt.Errorf("find active bookings for room %s: %w", roomID, err)
	}

	for _, b := range existing {
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if !IsActive(b.Status) {
			continue
		}
		overlap, err := DatesOverlap(checkIn, checkOut, b.CheckIn, b.CheckOut)
		if err != nil {
			return nil, fmt.Errorf("stored booking %s has invalid range: %w", b.ID, err)
		}
		if overlap {
			return b, nil
		}
	}

	return nil, nil
}
