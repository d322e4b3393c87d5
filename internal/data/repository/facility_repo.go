package repository

import (
	"context"
	"errors"
	"fmt"

	"resort-booking/internal/data/entity"
	"resort-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FacilityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Facility, error)
}

type facilityRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFacilityRepository(db database.Querier, log *zap.Logger) FacilityRepository {
	return &facilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "facility")),
	}
}

func (r *facilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Facility, error) {
	query := `
		SELECT id, resort_id, name, is_active, created_at, updated_at
		FROM facilities
		WHERE id = $1
	`

	var facility entity.Facility
	err := r.db.QueryRow(ctx, query, id).Scan(
		&facility.ID,
		&facility.ResortID,
		&facility.Name,
		&facility.IsActive,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find facility by ID",
			zap.Error(err),
			zap.String("facility_id", id.String()),
		)
		return nil, fmt.Errorf("find facility by ID %s: %w", id.String(), err)
	}

	return &facility, nil
}
