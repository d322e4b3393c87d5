package entity

import "github.com/google/uuid"

type Room struct {
	Base
	ResortID   uuid.UUID `db:"resort_id"`
	Name       string    `db:"name"`
	PriceCents int64     `db:"price_cents"` // per night, minor currency units
	Capacity   int       `db:"capacity"`
}
