package adaptor

import (
	"encoding/json"
	"net/http"

	"resort-booking/internal/dto/request"
	"resort-booking/internal/usecase"
	"resort-booking/pkg/utils"

	"go.uber.org/zap"
)

type FacilityBookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewFacilityBookingHandler(service usecase.ReservationService, log *zap.Logger) *FacilityBookingHandler {
	return &FacilityBookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "facility_booking")),
	}
}

// CreateBooking handles POST /api/bookings/facilities (protected)
func (h *FacilityBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateFacilityBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateFacilityBooking(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create facility booking")
		return
	}

	utils.ResponseCreated(w, "Facility booking created", booking)
}

func (h *FacilityBookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetFacilityBooking(r.Context(), bookingID, actorID)
	if err != nil {
		writeServiceError(w, h.log, err, "get facility booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func (h *FacilityBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelFacilityBooking(r.Context(), bookingID, actorID)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel facility booking")
		return
	}

	utils.ResponseSuccess(w, "Facility booking cancelled", booking)
}

func (h *FacilityBookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.ConfirmFacilityBooking(r.Context(), bookingID, actorID)
	if err != nil {
		writeServiceError(w, h.log, err, "confirm facility booking")
		return
	}

	utils.ResponseSuccess(w, "Facility booking confirmed", booking)
}

func (h *FacilityBookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListUserFacilityBookings(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list facility bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CheckAvailability handles GET /api/facilities/{id}/availability?date=&start_time=&end_time= (public)
func (h *FacilityBookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.FacilityAvailabilityRequest{
		Date:      query.Get("date"),
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
	}

	availability, err := h.service.CheckFacilityAvailability(r.Context(), facilityID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "check facility availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
