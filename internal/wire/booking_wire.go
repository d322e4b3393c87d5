package wire

import (
	"resort-booking/internal/adaptor"
	"resort-booking/pkg/middleware"
	"resort-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoomBooking(
	r chi.Router,
	h *adaptor.RoomBookingHandler,
	deps Deps,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/rooms/{id}/availability", h.CheckAvailability)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(deps.Repo.Session, deps.Repo.User, log))

		r.With(middleware.Idempotency(deps.Idempotency, config.Redis.IdempotencyTTL, log)).
			Post("/api/bookings/rooms", h.CreateBooking)
		r.Get("/api/bookings/rooms/{id}", h.GetBooking)
		r.Put("/api/bookings/rooms/{id}/cancel", h.CancelBooking)
		r.Get("/api/user/bookings/rooms", h.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(deps.Repo.Session, deps.Repo.User, log))
		r.Use(middleware.Admin(log))

		r.Put("/api/admin/bookings/rooms/{id}/confirm", h.ConfirmBooking)
	})
}

func wireFacilityBooking(
	r chi.Router,
	h *adaptor.FacilityBookingHandler,
	deps Deps,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/facilities/{id}/availability", h.CheckAvailability)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(deps.Repo.Session, deps.Repo.User, log))

		r.With(middleware.Idempotency(deps.Idempotency, config.Redis.IdempotencyTTL, log)).
			Post("/api/bookings/facilities", h.CreateBooking)
		r.Get("/api/bookings/facilities/{id}", h.GetBooking)
		r.Put("/api/bookings/facilities/{id}/cancel", h.CancelBooking)
		r.Get("/api/user/bookings/facilities", h.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(deps.Repo.Session, deps.Repo.User, log))
		r.Use(middleware.Admin(log))

		r.Put("/api/admin/bookings/facilities/{id}/confirm", h.ConfirmBooking)
	})
}
