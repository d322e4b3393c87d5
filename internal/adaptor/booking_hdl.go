package adaptor

import (
	"encoding/json"
	"net/http"

	"resort-booking/internal/dto/request"
	"resort-booking/internal/usecase"
	"resort-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomBookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewRoomBookingHandler(service usecase.ReservationService, log *zap.Logger) *RoomBookingHandler {
	return &RoomBookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "room_booking")),
	}
}

// CreateBooking handles POST /api/bookings/rooms (protected)
func (h *RoomBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRoomBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateRoomBooking(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create room booking")
		return
	}

	utils.ResponseCreated(w, "Room booking created", booking)
}

// GetBooking handles GET /api/bookings/rooms/{id} (owner or admin)
func (h *RoomBookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetRoomBooking(r.Context(), bookingID, actorID)
	if err != nil {
		writeServiceError(w, h.log, err, "get room booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/rooms/{id}/cancel (owner or admin)
func (h *RoomBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelRoomBooking(r.Context(), bookingID, actorID)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel room booking")
		return
	}

	utils.ResponseSuccess(w, "Room booking cancelled", booking)
}

// ConfirmBooking handles PUT /api/admin/bookings/rooms/{id}/confirm (admin)
func (h *RoomBookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.ConfirmRoomBooking(r.Context(), bookingID, actorID)
	if err != nil {
		writeServiceError(w, h.log, err, "confirm room booking")
		return
	}

	utils.ResponseSuccess(w, "Room booking confirmed", booking)
}

// GetUserBookings handles GET /api/user/bookings/rooms (protected)
func (h *RoomBookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListUserRoomBookings(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list room bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CheckAvailability handles GET /api/rooms/{id}/availability?check_in=&check_out= (public)
func (h *RoomBookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.RoomAvailabilityRequest{
		CheckIn:  query.Get("check_in"),
		CheckOut: query.Get("check_out"),
	}

	availability, err := h.service.CheckRoomAvailability(r.Context(), roomID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "check room availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid ID format", map[string]string{"id": "Must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
