package usecase

import (
	"context"
	"fmt"

	"resort-booking/internal/data/repository"
	"resort-booking/internal/reservation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authorizer decides whether actorID may apply action to a booking owned by ownerID.
type Authorizer interface {
	Authorize(ctx context.Context, actorID uuid.UUID, action reservation.Action, ownerID uuid.UUID) (bool, error)
}

type roleAuthorizer struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewAuthorizer grants admins every action and lets owners view and cancel
// their own bookings. Only admins confirm.
func NewAuthorizer(users repository.UserRepository, log *zap.Logger) Authorizer {
	return &roleAuthorizer{
		users: users,
		log:   log.With(zap.String("service", "authorizer")),
	}
}

func (a *roleAuthorizer) Authorize(ctx context.Context, actorID uuid.UUID, action reservation.Action, ownerID uuid.UUID) (bool, error) {
	user, err := a.users.FindByID(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("load actor %s: %w", actorID, err)
	}
	if user == nil || !user.IsActive {
		a.log.Debug("Unknown or inactive actor", zap.String("actor_id", actorID.String()))
		return false, nil
	}

	if user.IsAdmin() {
		return true, nil
	}

	switch action {
	case reservation.ActionView, reservation.ActionCancel:
		return actorID == ownerID, nil
	default:
		return false, nil
	}
}
