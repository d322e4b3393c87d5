package entity

import "github.com/google/uuid"

type Facility struct {
	Base
	ResortID uuid.UUID `db:"resort_id"`
	Name     string    `db:"name"`
	IsActive bool      `db:"is_active"`
}
