package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resort-booking/internal/data/entity"
	"resort-booking/internal/data/repository"
	"resort-booking/internal/dto/request"
	"resort-booking/internal/dto/response"
	"resort-booking/internal/reservation"
	"resort-booking/pkg/database"
	"resort-booking/pkg/metrics"
	"resort-booking/pkg/utils"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	resourceRoom     = "room"
	resourceFacility = "facility"

	roomReferencePrefix     = "RSV"
	facilityReferencePrefix = "FAC"
)

type ReservationService interface {
	CreateRoomBooking(ctx context.Context, userID uuid.UUID, req *request.CreateRoomBookingRequest) (*response.RoomBookingResponse, error)
	CancelRoomBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.RoomBookingResponse, error)
	ConfirmRoomBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.RoomBookingResponse, error)
	GetRoomBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.RoomBookingResponse, error)
	ListUserRoomBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RoomBookingResponse], error)
	CheckRoomAvailability(ctx context.Context, roomID uuid.UUID, req *request.RoomAvailabilityRequest) (*response.RoomAvailabilityResponse, error)

	CreateFacilityBooking(ctx context.Context, userID uuid.UUID, req *request.CreateFacilityBookingRequest) (*response.FacilityBookingResponse, error)
	CancelFacilityBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.FacilityBookingResponse, error)
	ConfirmFacilityBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.FacilityBookingResponse, error)
	GetFacilityBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.FacilityBookingResponse, error)
	ListUserFacilityBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FacilityBookingResponse], error)
	CheckFacilityAvailability(ctx context.Context, facilityID uuid.UUID, req *request.FacilityAvailabilityRequest) (*response.FacilityAvailabilityResponse, error)
}

type reservationService struct {
	repo   *repository.Repository
	tx     repository.Transactor
	authz  Authorizer
	events EventPublisher
	cfg    utils.ReservationConfig
	tracer trace.Tracer
	log    *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	tx repository.Transactor,
	authz Authorizer,
	events EventPublisher,
	cfg utils.ReservationConfig,
	log *zap.Logger,
) ReservationService {
	if events == nil {
		events = NewNopPublisher()
	}
	return &reservationService{
		repo:   repo,
		tx:     tx,
		authz:  authz,
		events: events,
		cfg:    cfg,
		tracer: otel.Tracer("resort-booking/usecase"),
		log:    log.With(zap.String("service", "reservation")),
	}
}

// runSerializable runs fn in a SERIALIZABLE transaction. Serialization
// failures and deadlocks are retried with the same input up to
// cfg.MaxAttempts; everything else, conflicts included, returns at once.
func (s *reservationService) runSerializable(ctx context.Context, resource string, resourceID uuid.UUID, fn func(repo *repository.Repository) error) error {
	return s.retry(ctx, resource, resourceID, s.tx.WithinTx, true, fn)
}

// runReadOnly is runSerializable for lookups. Attempts are not counted as
// reservation attempts.
func (s *reservationService) runReadOnly(ctx context.Context, resource string, resourceID uuid.UUID, fn func(repo *repository.Repository) error) error {
	return s.retry(ctx, resource, resourceID, s.tx.WithinReadTx, false, fn)
}

func (s *reservationService) retry(
	ctx context.Context,
	resource string,
	resourceID uuid.UUID,
	within func(context.Context, func(*repository.Repository) error) error,
	countAttempts bool,
	fn func(repo *repository.Repository) error,
) error {
	maxAttempts := s.cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	expo := backoff.NewExponentialBackOff()
	if s.cfg.InitialBackoff > 0 {
		expo.InitialInterval = s.cfg.InitialBackoff
	}
	if s.cfg.MaxBackoff > 0 {
		expo.MaxInterval = s.cfg.MaxBackoff
	}
	expo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(maxAttempts-1)), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		if countAttempts {
			metrics.IncAttempt(resource)
		}
		err := within(ctx, fn)
		if err == nil {
			return nil
		}
		if database.IsSerializationFailure(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		metrics.IncRetry(resource)
		s.log.Debug("Serialization failure, retrying transaction",
			zap.String("resource", resource),
			zap.String("resource_id", resourceID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, policy, notify)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case database.IsSerializationFailure(err):
		return &reservation.BookingConflictError{
			Resource:         resource,
			ResourceID:       resourceID,
			RetriesExhausted: true,
			Err:              err,
		}
	case database.IsExclusionViolation(err):
		return &reservation.BookingConflictError{
			Resource:   resource,
			ResourceID: resourceID,
			Err:        err,
		}
	}
	return err
}

func (s *reservationService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "ReservationService."+name, trace.WithAttributes(attrs...))
}

// fail records err on the span and metrics. Domain errors are logged at
// Warn, anything else at Error.
func (s *reservationService) fail(span trace.Span, resource, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var conflict *reservation.BookingConflictError
	outcome := "error"
	switch {
	case errors.As(err, &conflict) && conflict.RetriesExhausted:
		outcome = "retries_exhausted"
	case errors.Is(err, reservation.ErrConflict):
		outcome = "conflict"
	case errors.Is(err, reservation.ErrValidation):
		outcome = "invalid"
	case errors.Is(err, reservation.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, reservation.ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, reservation.ErrInvalidTransition):
		outcome = "invalid_transition"
	}
	metrics.IncOutcome(resource, outcome)

	if outcome == "error" {
		s.log.Error("Reservation operation failed", zap.String("operation", op), zap.Error(err))
	} else {
		s.log.Warn("Reservation operation rejected",
			zap.String("operation", op),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
	return err
}

func (s *reservationService) publish(ctx context.Context, key string, event BookingEvent) {
	// the reservation is already committed; a lost event must not undo it
	if err := s.events.PublishJSON(ctx, key, event); err != nil {
		s.log.Error("Failed to publish booking event",
			zap.String("event", key),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
	}
}

func (s *reservationService) authorize(ctx context.Context, actorID uuid.UUID, action reservation.Action, ownerID uuid.UUID) error {
	allowed, err := s.authz.Authorize(ctx, actorID, action, ownerID)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", action, err)
	}
	if !allowed {
		return &reservation.ForbiddenError{ActorID: actorID, Action: action}
	}
	return nil
}

func requireActiveUser(ctx context.Context, repo *repository.Repository, userID uuid.UUID) error {
	user, err := repo.User.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return reservation.NewNotFound("user", userID)
	}
	return nil
}

// missingParent turns a foreign-key failure on insert into the NotFoundError
// of the row that was removed while the transaction ran.
func missingParent(err error, userID uuid.UUID, resource string, resourceID uuid.UUID) error {
	if !database.IsForeignKeyViolation(err) {
		return err
	}
	if strings.Contains(database.ConstraintName(err), "user_id") {
		return reservation.NewNotFound("user", userID)
	}
	return reservation.NewNotFound(resource, resourceID)
}

func parseDateField(field, value string) (time.Time, error) {
	t, err := reservation.ParseDate(value)
	if err != nil {
		return time.Time{}, reservation.NewValidationError("invalid date",
			map[string]string{field: fmt.Sprintf("Must match layout %s", reservation.DateLayout)})
	}
	return t, nil
}

func pageOf(req *request.PaginatedRequest) int {
	if req.Page < 1 {
		return 1
	}
	return req.Page
}

// Room bookings

func (s *reservationService) CreateRoomBooking(ctx context.Context, userID uuid.UUID, req *request.CreateRoomBookingRequest) (*response.RoomBookingResponse, error) {
	const op = "CreateRoomBooking"
	started := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("user_id", userID.String()), attribute.String("room_id", req.RoomID))
	defer func() {
		metrics.ObserveDuration(op, time.Since(started).Seconds())
		span.End()
	}()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.fail(span, resourceRoom, op, reservation.NewValidationError("invalid room booking request", errs))
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, reservation.NewValidationError("invalid room ID",
			map[string]string{"room_id": "Must be a valid UUID"}))
	}
	checkIn, err := parseDateField("check_in", req.CheckIn)
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}
	checkOut, err := parseDateField("check_out", req.CheckOut)
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}
	if err := reservation.ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}

	var booking *entity.Booking
	err = s.runSerializable(ctx, resourceRoom, roomID, func(repo *repository.Repository) error {
		booking = nil

		if err := requireActiveUser(ctx, repo, userID); err != nil {
			return err
		}

		room, err := repo.Room.FindByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return reservation.NewNotFound("room", roomID)
		}
		if req.NumGuests > room.Capacity {
			return reservation.NewValidationError("too many guests",
				map[string]string{"num_guests": fmt.Sprintf("Room capacity is %d", room.Capacity)})
		}

		conflict, err := reservation.NewAvailabilityChecker(repo.Booking).
			ConflictingRoomBooking(ctx, roomID, checkIn, checkOut, nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &reservation.BookingConflictError{
				Resource:      resourceRoom,
				ResourceID:    roomID,
				ConflictingID: conflict.ID,
			}
		}

		total, err := reservation.ComputeRoomTotal(room.PriceCents, checkIn, checkOut)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		id := uuid.New()
		b := &entity.Booking{
			Base:            entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
			Reference:       utils.GenerateReference(roomReferencePrefix, id, now),
			UserID:          userID,
			RoomID:          roomID,
			CheckIn:         reservation.NormalizeDate(checkIn),
			CheckOut:        reservation.NormalizeDate(checkOut),
			NumGuests:       req.NumGuests,
			TotalCents:      total,
			Status:          entity.BookingStatusPending,
			SpecialRequests: req.SpecialRequests,
		}
		if err := repo.Booking.Create(ctx, b); err != nil {
			return missingParent(err, userID, "room", roomID)
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}

	metrics.IncOutcome(resourceRoom, "created")
	s.publish(ctx, EventRoomBookingCreated, roomBookingEvent(booking, booking.CreatedAt))

	s.log.Info("Room booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("room_id", roomID.String()),
		zap.Int64("total_cents", booking.TotalCents),
	)

	resp := response.RoomBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) CancelRoomBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.RoomBookingResponse, error) {
	return s.transitionRoomBooking(ctx, "CancelRoomBooking", bookingID, actorID, reservation.ActionCancel)
}

func (s *reservationService) ConfirmRoomBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.RoomBookingResponse, error) {
	return s.transitionRoomBooking(ctx, "ConfirmRoomBooking", bookingID, actorID, reservation.ActionConfirm)
}

// transitionRoomBooking applies a lifecycle action. Cancelling a cancelled
// booking succeeds without writing.
func (s *reservationService) transitionRoomBooking(ctx context.Context, op string, bookingID, actorID uuid.UUID, action reservation.Action) (*response.RoomBookingResponse, error) {
	ctx, span := s.startSpan(ctx, op, attribute.String("booking_id", bookingID.String()), attribute.String("actor_id", actorID.String()))
	defer span.End()

	var (
		booking *entity.Booking
		changed bool
	)
	err := s.runSerializable(ctx, resourceRoom, bookingID, func(repo *repository.Repository) error {
		booking, changed = nil, false

		b, err := repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return reservation.NewNotFound("booking", bookingID)
		}
		if err := s.authorize(ctx, actorID, action, b.UserID); err != nil {
			return err
		}

		if action == reservation.ActionCancel && b.Status == entity.BookingStatusCancelled {
			booking = b
			return nil
		}

		next, err := reservation.Transition(b.Status, action)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := repo.Booking.UpdateStatus(ctx, b.ID, next, now); err != nil {
			return err
		}
		b.Status = next
		b.UpdatedAt = now

		booking, changed = b, true
		return nil
	})
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}

	if changed {
		metrics.IncTransition(resourceRoom, string(action))
		key := EventRoomBookingCancelled
		if action == reservation.ActionConfirm {
			key = EventRoomBookingConfirmed
		}
		s.publish(ctx, key, roomBookingEvent(booking, booking.UpdatedAt))

		s.log.Info("Room booking status changed",
			zap.String("booking_id", booking.ID.String()),
			zap.String("action", string(action)),
			zap.String("status", string(booking.Status)),
		)
	}

	resp := response.RoomBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) GetRoomBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.RoomBookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, reservation.NewNotFound("booking", bookingID)
	}
	if err := s.authorize(ctx, actorID, reservation.ActionView, booking.UserID); err != nil {
		return nil, err
	}

	resp := response.RoomBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) ListUserRoomBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RoomBookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings of user %s: %w", userID, err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count bookings of user %s: %w", userID, err)
	}

	data := make([]response.RoomBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.RoomBookingToResponse(b))
	}

	return response.NewPaginatedResponse(data, pageOf(req), req.Limit(), total), nil
}

func (s *reservationService) CheckRoomAvailability(ctx context.Context, roomID uuid.UUID, req *request.RoomAvailabilityRequest) (*response.RoomAvailabilityResponse, error) {
	const op = "CheckRoomAvailability"
	ctx, span := s.startSpan(ctx, op, attribute.String("room_id", roomID.String()))
	defer span.End()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.fail(span, resourceRoom, op, reservation.NewValidationError("invalid availability query", errs))
	}
	checkIn, err := parseDateField("check_in", req.CheckIn)
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}
	checkOut, err := parseDateField("check_out", req.CheckOut)
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}
	if err := reservation.ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}

	var result *response.RoomAvailabilityResponse
	err = s.runReadOnly(ctx, resourceRoom, roomID, func(repo *repository.Repository) error {
		room, err := repo.Room.FindByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return reservation.NewNotFound("room", roomID)
		}

		available, err := reservation.NewAvailabilityChecker(repo.Booking).
			IsRoomAvailable(ctx, roomID, checkIn, checkOut, nil)
		if err != nil {
			return err
		}

		result = &response.RoomAvailabilityResponse{
			RoomID:    roomID.String(),
			CheckIn:   reservation.NormalizeDate(checkIn).Format(reservation.DateLayout),
			CheckOut:  reservation.NormalizeDate(checkOut).Format(reservation.DateLayout),
			Available: available,
			Nights:    reservation.Nights(checkIn, checkOut),
		}
		if available {
			total, err := reservation.ComputeRoomTotal(room.PriceCents, checkIn, checkOut)
			if err != nil {
				return err
			}
			result.TotalCents = total
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, resourceRoom, op, err)
	}

	return result, nil
}

// Facility bookings

func (s *reservationService) CreateFacilityBooking(ctx context.Context, userID uuid.UUID, req *request.CreateFacilityBookingRequest) (*response.FacilityBookingResponse, error) {
	const op = "CreateFacilityBooking"
	started := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("user_id", userID.String()), attribute.String("facility_id", req.FacilityID))
	defer func() {
		metrics.ObserveDuration(op, time.Since(started).Seconds())
		span.End()
	}()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.fail(span, resourceFacility, op, reservation.NewValidationError("invalid facility booking request", errs))
	}

	facilityID, err := uuid.Parse(req.FacilityID)
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, reservation.NewValidationError("invalid facility ID",
			map[string]string{"facility_id": "Must be a valid UUID"}))
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}
	start, end, err := reservation.ParseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}
	startTime, endTime := reservation.FormatTimeOfDay(start), reservation.FormatTimeOfDay(end)

	var booking *entity.FacilityBooking
	err = s.runSerializable(ctx, resourceFacility, facilityID, func(repo *repository.Repository) error {
		booking = nil

		if err := requireActiveUser(ctx, repo, userID); err != nil {
			return err
		}

		conflict, err := reservation.NewFacilityScheduler(repo.Facility, repo.FacilityBooking).
			ConflictingFacilityBooking(ctx, facilityID, date, startTime, endTime, nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &reservation.BookingConflictError{
				Resource:      resourceFacility,
				ResourceID:    facilityID,
				ConflictingID: conflict.ID,
			}
		}

		now := time.Now().UTC()
		id := uuid.New()
		b := &entity.FacilityBooking{
			Base:       entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
			Reference:  utils.GenerateReference(facilityReferencePrefix, id, now),
			UserID:     userID,
			FacilityID: facilityID,
			Date:       reservation.NormalizeDate(date),
			StartTime:  startTime,
			EndTime:    endTime,
			NumPeople:  req.NumPeople,
			Status:     entity.BookingStatusPending,
		}
		if err := repo.FacilityBooking.Create(ctx, b); err != nil {
			return missingParent(err, userID, "facility", facilityID)
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}

	metrics.IncOutcome(resourceFacility, "created")
	s.publish(ctx, EventFacilityBookingCreated, facilityBookingEvent(booking, booking.CreatedAt))

	s.log.Info("Facility booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("facility_id", facilityID.String()),
		zap.String("date", booking.Date.Format(reservation.DateLayout)),
		zap.String("slot", startTime+"-"+endTime),
	)

	resp := response.FacilityBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) CancelFacilityBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.FacilityBookingResponse, error) {
	return s.transitionFacilityBooking(ctx, "CancelFacilityBooking", bookingID, actorID, reservation.ActionCancel)
}

func (s *reservationService) ConfirmFacilityBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.FacilityBookingResponse, error) {
	return s.transitionFacilityBooking(ctx, "ConfirmFacilityBooking", bookingID, actorID, reservation.ActionConfirm)
}

func (s *reservationService) transitionFacilityBooking(ctx context.Context, op string, bookingID, actorID uuid.UUID, action reservation.Action) (*response.FacilityBookingResponse, error) {
	ctx, span := s.startSpan(ctx, op, attribute.String("booking_id", bookingID.String()), attribute.String("actor_id", actorID.String()))
	defer span.End()

	var (
		booking *entity.FacilityBooking
		changed bool
	)
	err := s.runSerializable(ctx, resourceFacility, bookingID, func(repo *repository.Repository) error {
		booking, changed = nil, false

		b, err := repo.FacilityBooking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return reservation.NewNotFound("facility booking", bookingID)
		}
		if err := s.authorize(ctx, actorID, action, b.UserID); err != nil {
			return err
		}

		if action == reservation.ActionCancel && b.Status == entity.BookingStatusCancelled {
			booking = b
			return nil
		}

		next, err := reservation.Transition(b.Status, action)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := repo.FacilityBooking.UpdateStatus(ctx, b.ID, next, now); err != nil {
			return err
		}
		b.Status = next
		b.UpdatedAt = now

		booking, changed = b, true
		return nil
	})
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}

	if changed {
		metrics.IncTransition(resourceFacility, string(action))
		key := EventFacilityBookingCancelled
		if action == reservation.ActionConfirm {
			key = EventFacilityBookingConfirmed
		}
		s.publish(ctx, key, facilityBookingEvent(booking, booking.UpdatedAt))

		s.log.Info("Facility booking status changed",
			zap.String("booking_id", booking.ID.String()),
			zap.String("action", string(action)),
			zap.String("status", string(booking.Status)),
		)
	}

	resp := response.FacilityBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) GetFacilityBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*response.FacilityBookingResponse, error) {
	booking, err := s.repo.FacilityBooking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get facility booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, reservation.NewNotFound("facility booking", bookingID)
	}
	if err := s.authorize(ctx, actorID, reservation.ActionView, booking.UserID); err != nil {
		return nil, err
	}

	resp := response.FacilityBookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) ListUserFacilityBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FacilityBookingResponse], error) {
	bookings, err := s.repo.FacilityBooking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list facility bookings of user %s: %w", userID, err)
	}

	total, err := s.repo.FacilityBooking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count facility bookings of user %s: %w", userID, err)
	}

	data := make([]response.FacilityBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.FacilityBookingToResponse(b))
	}

	return response.NewPaginatedResponse(data, pageOf(req), req.Limit(), total), nil
}

func (s *reservationService) CheckFacilityAvailability(ctx context.Context, facilityID uuid.UUID, req *request.FacilityAvailabilityRequest) (*response.FacilityAvailabilityResponse, error) {
	const op = "CheckFacilityAvailability"
	ctx, span := s.startSpan(ctx, op, attribute.String("facility_id", facilityID.String()))
	defer span.End()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, s.fail(span, resourceFacility, op, reservation.NewValidationError("invalid availability query", errs))
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}
	start, end, err := reservation.ParseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}
	startTime, endTime := reservation.FormatTimeOfDay(start), reservation.FormatTimeOfDay(end)

	var available bool
	err = s.runReadOnly(ctx, resourceFacility, facilityID, func(repo *repository.Repository) error {
		ok, err := reservation.NewFacilityScheduler(repo.Facility, repo.FacilityBooking).
			IsFacilitySlotAvailable(ctx, facilityID, date, startTime, endTime, nil)
		if err != nil {
			return err
		}
		available = ok
		return nil
	})
	if err != nil {
		return nil, s.fail(span, resourceFacility, op, err)
	}

	return &response.FacilityAvailabilityResponse{
		FacilityID: facilityID.String(),
		Date:       reservation.NormalizeDate(date).Format(reservation.DateLayout),
		StartTime:  startTime,
		EndTime:    endTime,
		Available:  available,
	}, nil
}
