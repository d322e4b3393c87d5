package request

type CreateRoomBookingRequest struct {
	RoomID          string  `json:"room_id" validate:"required,uuid"`
	CheckIn         string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	NumGuests       int     `json:"num_guests" validate:"required,min=1"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type CreateFacilityBookingRequest struct {
	FacilityID string `json:"facility_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime    string `json:"end_time" validate:"required,datetime=15:04"`
	NumPeople  *int   `json:"num_people,omitempty" validate:"omitempty,min=1"`
}

// RoomAvailabilityRequest is bound from query parameters.
type RoomAvailabilityRequest struct {
	CheckIn  string `validate:"required,datetime=2006-01-02"`
	CheckOut string `validate:"required,datetime=2006-01-02"`
}

type FacilityAvailabilityRequest struct {
	Date      string `validate:"required,datetime=2006-01-02"`
	StartTime string `validate:"required,datetime=15:04"`
	EndTime   string `validate:"required,datetime=15:04"`
}
