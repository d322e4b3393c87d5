package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resort-booking/internal/data/entity"
	"resort-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FacilityBookingRepository interface {
	Create(ctx context.Context, booking *entity.FacilityBooking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FacilityBooking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.FacilityBooking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, at time.Time) error

	// FindActiveByFacilityAndDate returns pending/confirmed bookings of the
	// facility on date, ordered by start time.
	FindActiveByFacilityAndDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]*entity.FacilityBooking, error)
}

const facilityBookingColumns = `id, reference, user_id, facility_id, booking_date, start_time, end_time,
		       num_people, status, created_at, updated_at`

func scanFacilityBooking(row rowScanner) (*entity.FacilityBooking, error) {
	var b entity.FacilityBooking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.FacilityID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.NumPeople,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type facilityBookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFacilityBookingRepository(db database.Querier, log *zap.Logger) FacilityBookingRepository {
	return &facilityBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "facility_booking")),
	}
}

func (r *facilityBookingRepository) Create(ctx context.Context, booking *entity.FacilityBooking) error {
	query := `
		INSERT INTO facility_bookings (id, reference, user_id, facility_id, booking_date, start_time,
		                               end_time, num_people, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.UserID,
		booking.FacilityID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.NumPeople,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if database.IsSerializationFailure(err) || database.IsExclusionViolation(err) {
			r.log.Debug("Create facility booking aborted by store", zap.Error(err), zap.String("facility_id", booking.FacilityID.String()))
		} else {
			r.log.Error("Failed to create facility booking",
				zap.Error(err),
				zap.String("reference", booking.Reference),
				zap.String("facility_id", booking.FacilityID.String()),
			)
		}
		return fmt.Errorf("create facility booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *facilityBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FacilityBooking, error) {
	query := `SELECT ` + facilityBookingColumns + ` FROM facility_bookings WHERE id = $1`

	booking, err := scanFacilityBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find facility booking by ID",
			zap.Error(err),
			zap.String("facility_booking_id", id.String()),
		)
		return nil, fmt.Errorf("find facility booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *facilityBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.FacilityBooking, error) {
	query := `
		SELECT ` + facilityBookingColumns + `
		FROM facility_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find facility bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find facility bookings by user ID %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *facilityBookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM facility_bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count facility bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count facility bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *facilityBookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, at time.Time) error {
	query := `UPDATE facility_bookings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status, at)
	if err != nil {
		r.log.Error("Failed to update facility booking status",
			zap.Error(err),
			zap.String("facility_booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update facility booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("facility booking %s not found", bookingID.String())
	}

	return nil
}

func (r *facilityBookingRepository) FindActiveByFacilityAndDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]*entity.FacilityBooking, error) {
	query := `
		SELECT ` + facilityBookingColumns + `
		FROM facility_bookings
		WHERE facility_id = $1
		  AND booking_date = $2
		  AND status IN (` + activeStatusList + `)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, facilityID, date)
	if err != nil {
		return nil, fmt.Errorf("find active bookings by facility %s: %w", facilityID.String(), err)
	}

	return r.collect(rows)
}

func (r *facilityBookingRepository) collect(rows pgx.Rows) ([]*entity.FacilityBooking, error) {
	defer rows.Close()

	var bookings []*entity.FacilityBooking
	for rows.Next() {
		booking, err := scanFacilityBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan facility booking row", zap.Error(err))
			return nil, fmt.Errorf("scan facility booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facility booking rows: %w", err)
	}

	return bookings, nil
}
