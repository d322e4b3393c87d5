package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resort-booking/internal/data/entity"
	"resort-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User            UserRepository
	Session         SessionRepository
	Room            RoomRepository
	Facility        FacilityRepository
	Booking         BookingRepository
	FacilityBooking FacilityBookingRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:            NewUserRepository(db, log),
		Session:         NewSessionRepository(db, log),
		Room:            NewRoomRepository(db, log),
		Facility:        NewFacilityRepository(db, log),
		Booking:         NewBookingRepository(db, log),
		FacilityBooking: NewFacilityBookingRepository(db, log),
	}
}

// activeStatusList is entity.ActiveBookingStatuses as an SQL IN list. It is
// rendered inline so the planner can match the partial EXCLUDE indexes.
var activeStatusList = func() string {
	quoted := make([]string, 0, len(entity.ActiveBookingStatuses))
	for _, status := range entity.ActiveBookingStatuses {
		quoted = append(quoted, "'"+string(status)+"'")
	}
	return strings.Join(quoted, ", ")
}()

// Transactor runs fn against repositories bound to one SERIALIZABLE
// transaction. The transaction commits only when fn returns nil.
// WithinReadTx opens it READ ONLY.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
	WithinReadTx(ctx context.Context, fn func(repo *Repository) error) error
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactor(db database.PgxIface, log *zap.Logger) Transactor {
	return &pgTransactor{
		db:  db,
		log: log,
	}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	return t.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}, fn)
}

func (t *pgTransactor) WithinReadTx(ctx context.Context, fn func(repo *Repository) error) error {
	return t.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadOnly}, fn)
}

func (t *pgTransactor) run(ctx context.Context, opts pgx.TxOptions, fn func(repo *Repository) error) error {
	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin serializable transaction: %w", err)
	}

	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Warn("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	if err := fn(NewRepository(tx, t.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
