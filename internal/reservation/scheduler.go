package reservation

import (
	"context"
	"fmt"
	"time"

	"resort-booking/internal/data/entity"

	"github.com/google/uuid"
)

type FacilityFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Facility, error)
}

// FacilityBookingFinder returns active bookings of a facility on one date.
type FacilityBookingFinder interface {
	FindActiveByFacilityAndDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]*entity.FacilityBooking, error)
}

// FacilityScheduler is the facility counterpart of AvailabilityChecker,
// scoped to a single date and a time-of-day window.
type FacilityScheduler struct {
	facilities FacilityFinder
	bookings   FacilityBookingFinder
}

func NewFacilityScheduler(facilities FacilityFinder, bookings FacilityBookingFinder) *FacilityScheduler {
	return &FacilityScheduler{facilities: facilities, bookings: bookings}
}

func (s *FacilityScheduler) IsFacilitySlotAvailable(ctx context.Context, facilityID uuid.UUID, date time.Time, startTime, endTime string, excludeBookingID *uuid.UUID) (bool, error) {
	conflict, err := s.ConflictingFacilityBooking(ctx, facilityID, date, startTime, endTime, excludeBookingID)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

// ConflictingFacilityBooking returns the first active booking overlapping the
// window, or nil. Fails with FacilityInactiveError for inactive facilities.
func (s *FacilityScheduler) ConflictingFacilityBooking(ctx context.Context, facilityID uuid.UUID, date time.Time, startTime, endTime string, excludeBookingID *uuid.UUID) (*entity.FacilityBooking, error) {
	start, end, err := ParseTimeRange(startTime, endTime)
	if err != nil {
		return nil, err
	}

	facility, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("find facility %s: %w", facilityID, err)
	}
	if facility == nil {
		return nil, NewNotFound("facility", facilityID)
	}
	if !facility.IsActive {
		return nil, &FacilityInactiveError{FacilityID: facilityID}
	}

	existing, err := s.bookings.FindActiveByFacilityAndDate(ctx, facilityID, NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("find active bookings for facility %s: %w", facilityID, err)
	}

	for _, b := range existing {
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if !IsActive(b.Status) || !NormalizeDate(b.Date).Equal(NormalizeDate(date)) {
			continue
		}
		bs, be, err := ParseTimeRange(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored facility booking %s has invalid window: %w", b.ID, err)
		}
		if minutesOverlap(start, end, bs, be) {
			return b, nil
		}
	}

	return nil, nil
}
