package reservation

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Nights counts whole calendar days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(NormalizeDate(checkOut).Sub(NormalizeDate(checkIn)) / day)
}

// ComputeRoomTotal returns priceCents * nights. Integer cents only.
func ComputeRoomTotal(priceCents int64, checkIn, checkOut time.Time) (int64, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, &InvalidRangeError{
			Start: NormalizeDate(checkIn).Format(DateLayout),
			End:   NormalizeDate(checkOut).Format(DateLayout),
		}
	}
	if priceCents <= 0 {
		return 0, NewValidationError("room price must be positive",
			map[string]string{"price_cents": fmt.Sprintf("%d", priceCents)})
	}
	return priceCents * int64(nights), nil
}
