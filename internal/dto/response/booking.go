package response

import (
	"time"

	"resort-booking/internal/data/entity"
)

const dateLayout = "2006-01-02"

type RoomBookingResponse struct {
	ID              string               `json:"id"`
	Reference       string               `json:"reference"`
	UserID          string               `json:"user_id"`
	RoomID          string               `json:"room_id"`
	CheckIn         string               `json:"check_in"`
	CheckOut        string               `json:"check_out"`
	Nights          int                  `json:"nights"`
	NumGuests       int                  `json:"num_guests"`
	TotalCents      int64                `json:"total_cents"`
	Status          entity.BookingStatus `json:"status"`
	SpecialRequests *string              `json:"special_requests,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type FacilityBookingResponse struct {
	ID         string               `json:"id"`
	Reference  string               `json:"reference"`
	UserID     string               `json:"user_id"`
	FacilityID string               `json:"facility_id"`
	Date       string               `json:"date"`
	StartTime  string               `json:"start_time"`
	EndTime    string               `json:"end_time"`
	NumPeople  *int                 `json:"num_people,omitempty"`
	Status     entity.BookingStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// RoomAvailabilityResponse carries a price quote when the room is free.
// It is advisory; only a create request reserves anything.
type RoomAvailabilityResponse struct {
	RoomID     string `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Available  bool   `json:"available"`
	Nights     int    `json:"nights"`
	TotalCents int64  `json:"total_cents,omitempty"`
}

type FacilityAvailabilityResponse struct {
	FacilityID string `json:"facility_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Available  bool   `json:"available"`
}

func RoomBookingToResponse(b *entity.Booking) RoomBookingResponse {
	return RoomBookingResponse{
		ID:              b.ID.String(),
		Reference:       b.Reference,
		UserID:          b.UserID.String(),
		RoomID:          b.RoomID.String(),
		CheckIn:         b.CheckIn.Format(dateLayout),
		CheckOut:        b.CheckOut.Format(dateLayout),
		Nights:          int(b.CheckOut.Sub(b.CheckIn).Hours() / 24),
		NumGuests:       b.NumGuests,
		TotalCents:      b.TotalCents,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func FacilityBookingToResponse(b *entity.FacilityBooking) FacilityBookingResponse {
	return FacilityBookingResponse{
		ID:         b.ID.String(),
		Reference:  b.Reference,
		UserID:     b.UserID.String(),
		FacilityID: b.FacilityID.String(),
		Date:       b.Date.Format(dateLayout),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		NumPeople:  b.NumPeople,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
