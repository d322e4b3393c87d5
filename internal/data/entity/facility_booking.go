package entity

import (
	"time"

	"github.com/google/uuid"
)

// FacilityBooking holds [StartTime, EndTime) on a single Date. Times are "HH:MM".
type FacilityBooking struct {
	Base
	Reference  string        `db:"reference"`
	UserID     uuid.UUID     `db:"user_id"`
	FacilityID uuid.UUID     `db:"facility_id"`
	Date       time.Time     `db:"booking_date"`
	StartTime  string        `db:"start_time"`
	EndTime    string        `db:"end_time"`
	NumPeople  *int          `db:"num_people"`
	Status     BookingStatus `db:"status"`
}
