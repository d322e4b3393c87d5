package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"resort-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoomBookingFinder struct {
	findActiveByRoomFunc func(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Booking, error)
}

func (m *mockRoomBookingFinder) FindActiveByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	if m.findActiveByRoomFunc != nil {
		return m.findActiveByRoomFunc(ctx, roomID, from, to)
	}
	return nil, nil
}

func roomBooking(checkIn, checkOut string, status entity.BookingStatus) *entity.Booking {
	return &entity.Booking{
		Base:     entity.Base{ID: uuid.New()},
		CheckIn:  date(checkIn),
		CheckOut: date(checkOut),
		Status:   status,
	}
}

func TestIsRoomAvailable(t *testing.T) {
	roomID := uuid.New()
	existing := roomBooking("2024-06-01", "2024-06-05", entity.BookingStatusConfirmed)

	finder := &mockRoomBookingFinder{
		findActiveByRoomFunc: func(_ context.Context, gotRoom uuid.UUID, _, _ time.Time) ([]*entity.Booking, error) {
			assert.Equal(t, roomID, gotRoom)
			return []*entity.Booking{
				existing,
				// over-returned rows must be filtered by the checker itself
				roomBooking("2024-06-02", "2024-06-04", entity.BookingStatusCancelled),
				roomBooking("2024-07-01", "2024-07-03", entity.BookingStatusPending),
			}, nil
		},
	}
	checker := NewAvailabilityChecker(finder)
	ctx := context.Background()

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		exclude  *uuid.UUID
		want     bool
	}{
		{"same range", "2024-06-01", "2024-06-05", nil, false},
		{"overlaps tail", "2024-06-04", "2024-06-06", nil, false},
		{"starts on checkout", "2024-06-05", "2024-06-07", nil, true},
		{"ends on check-in", "2024-05-28", "2024-06-01", nil, true},
		{"inside cancelled only", "2024-06-10", "2024-06-12", nil, true},
		{"excluding itself", "2024-06-02", "2024-06-04", &existing.ID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsRoomAvailable(ctx, roomID, date(tt.checkIn), date(tt.checkOut), tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRoomAvailable_Errors(t *testing.T) {
	ctx := context.Background()

	checker := NewAvailabilityChecker(&mockRoomBookingFinder{})
	_, err := checker.IsRoomAvailable(ctx, uuid.New(), date("2024-06-05"), date("2024-06-01"), nil)
	assert.ErrorIs(t, err, ErrValidation)

	dbErr := errors.New("connection reset")
	checker = NewAvailabilityChecker(&mockRoomBookingFinder{
		findActiveByRoomFunc: func(context.Context, uuid.UUID, time.Time, time.Time) ([]*entity.Booking, error) {
			return nil, dbErr
		},
	})
	_, err = checker.IsRoomAvailable(ctx, uuid.New(), date("2024-06-01"), date("2024-06-05"), nil)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrConflict)
}

type mockFacilityFinder struct {
	facility *entity.Facility
	err      error
}

func (m *mockFacilityFinder) FindByID(context.Context, uuid.UUID) (*entity.Facility, error) {
	return m.facility, m.err
}

type mockFacilityBookingFinder struct {
	bookings []*entity.FacilityBooking
}

func (m *mockFacilityBookingFinder) FindActiveByFacilityAndDate(_ context.Context, facilityID uuid.UUID, day time.Time) ([]*entity.FacilityBooking, error) {
	var out []*entity.FacilityBooking
	for _, b := range m.bookings {
		if b.FacilityID == facilityID && b.Date.Equal(day) {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestIsFacilitySlotAvailable(t *testing.T) {
	facility := &entity.Facility{Base: entity.Base{ID: uuid.New()}, IsActive: true}
	day := date("2024-07-01")
	bookingA := &entity.FacilityBooking{
		Base:       entity.Base{ID: uuid.New()},
		FacilityID: facility.ID,
		Date:       day,
		StartTime:  "09:00",
		EndTime:    "10:00",
		Status:     entity.BookingStatusConfirmed,
	}
	scheduler := NewFacilityScheduler(
		&mockFacilityFinder{facility: facility},
		&mockFacilityBookingFinder{bookings: []*entity.FacilityBooking{bookingA}},
	)
	ctx := context.Background()

	free, err := scheduler.IsFacilitySlotAvailable(ctx, facility.ID, day, "09:30", "10:30", nil)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = scheduler.IsFacilitySlotAvailable(ctx, facility.ID, day, "10:00", "11:00", nil)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = scheduler.IsFacilitySlotAvailable(ctx, facility.ID, date("2024-07-02"), "09:00", "10:00", nil)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = scheduler.IsFacilitySlotAvailable(ctx, facility.ID, day, "09:00", "10:00", &bookingA.ID)
	require.NoError(t, err)
	assert.True(t, free)

	conflict, err := scheduler.ConflictingFacilityBooking(ctx, facility.ID, day, "08:00", "09:01", nil)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, bookingA.ID, conflict.ID)
}

func TestIsFacilitySlotAvailable_Errors(t *testing.T) {
	ctx := context.Background()
	day := date("2024-07-01")
	id := uuid.New()

	inactive := NewFacilityScheduler(
		&mockFacilityFinder{facility: &entity.Facility{Base: entity.Base{ID: id}, IsActive: false}},
		&mockFacilityBookingFinder{},
	)
	_, err := inactive.IsFacilitySlotAvailable(ctx, id, day, "09:00", "10:00", nil)
	var inactiveErr *FacilityInactiveError
	require.ErrorAs(t, err, &inactiveErr)
	assert.ErrorIs(t, err, ErrValidation)

	missing := NewFacilityScheduler(&mockFacilityFinder{}, &mockFacilityBookingFinder{})
	_, err = missing.IsFacilitySlotAvailable(ctx, id, day, "09:00", "10:00", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = missing.IsFacilitySlotAvailable(ctx, id, day, "10:00", "09:00", nil)
	var rangeErr *InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
}
