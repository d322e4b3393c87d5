package usecase

import (
	"context"
	"time"

	"resort-booking/internal/data/entity"
)

// Routing keys of booking lifecycle events.
const (
	EventRoomBookingCreated       = "booking.room.created"
	EventRoomBookingConfirmed     = "booking.room.confirmed"
	EventRoomBookingCancelled     = "booking.room.cancelled"
	EventFacilityBookingCreated   = "booking.facility.created"
	EventFacilityBookingConfirmed = "booking.facility.confirmed"
	EventFacilityBookingCancelled = "booking.facility.cancelled"
)

// EventPublisher is satisfied by *mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type nopPublisher struct{}

// NewNopPublisher drops every event. Used when no broker is configured.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishJSON(context.Context, string, any) error { return nil }

type BookingEvent struct {
	BookingID  string               `json:"booking_id"`
	Reference  string               `json:"reference"`
	UserID     string               `json:"user_id"`
	RoomID     string               `json:"room_id,omitempty"`
	FacilityID string               `json:"facility_id,omitempty"`
	Status     entity.BookingStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

func roomBookingEvent(b *entity.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID.String(),
		Reference:  b.Reference,
		UserID:     b.UserID.String(),
		RoomID:     b.RoomID.String(),
		Status:     b.Status,
		OccurredAt: at,
	}
}

func facilityBookingEvent(b *entity.FacilityBooking, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID.String(),
		Reference:  b.Reference,
		UserID:     b.UserID.String(),
		FacilityID: b.FacilityID.String(),
		Status:     b.Status,
		OccurredAt: at,
	}
}
