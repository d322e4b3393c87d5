package adaptor

import (
	"resort-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	RoomBooking     *RoomBookingHandler
	FacilityBooking *FacilityBookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		RoomBooking:     NewRoomBookingHandler(service.Reservation, log),
		FacilityBooking: NewFacilityBookingHandler(service.Reservation, log),
	}
}
