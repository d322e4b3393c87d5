package usecase

import (
	"resort-booking/internal/data/repository"
	"resort-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Authorizer  Authorizer
	Reservation ReservationService
}

func NewService(repo *repository.Repository, tx repository.Transactor, events EventPublisher, config *utils.Config, log *zap.Logger) *Service {
	authz := NewAuthorizer(repo.User, log)
	return &Service{
		Authorizer:  authz,
		Reservation: NewReservationService(repo, tx, authz, events, config.Reservation, log),
	}
}
