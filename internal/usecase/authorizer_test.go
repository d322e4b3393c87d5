package usecase

import (
	"context"
	"errors"
	"testing"

	"resort-booking/internal/data/entity"
	"resort-booking/internal/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userFinderFunc func(ctx context.Context, id uuid.UUID) (*entity.User, error)

func (f userFinderFunc) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f(ctx, id)
}

func TestRoleAuthorizer(t *testing.T) {
	store := newMemStore()
	owner := store.addUser(entity.RoleCustomer)
	other := store.addUser(entity.RoleCustomer)
	admin := store.addUser(entity.RoleAdmin)
	disabled := store.addUser(entity.RoleAdmin)
	store.users[disabled].IsActive = false

	authz := NewAuthorizer(memUsers{store.users}, zap.NewNop())

	tests := []struct {
		name   string
		actor  uuid.UUID
		action reservation.Action
		want   bool
	}{
		{name: "owner views", actor: owner, action: reservation.ActionView, want: true},
		{name: "owner cancels", actor: owner, action: reservation.ActionCancel, want: true},
		{name: "owner confirms", actor: owner, action: reservation.ActionConfirm, want: false},
		{name: "stranger views", actor: other, action: reservation.ActionView, want: false},
		{name: "stranger cancels", actor: other, action: reservation.ActionCancel, want: false},
		{name: "admin confirms", actor: admin, action: reservation.ActionConfirm, want: true},
		{name: "admin cancels", actor: admin, action: reservation.ActionCancel, want: true},
		{name: "inactive admin", actor: disabled, action: reservation.ActionCancel, want: false},
		{name: "unknown actor", actor: uuid.New(), action: reservation.ActionView, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := authz.Authorize(context.Background(), tt.actor, tt.action, owner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleAuthorizer_LookupError(t *testing.T) {
	boom := errors.New("db down")
	authz := NewAuthorizer(userFinderFunc(func(context.Context, uuid.UUID) (*entity.User, error) {
		return nil, boom
	}), zap.NewNop())

	ok, err := authz.Authorize(context.Background(), uuid.New(), reservation.ActionView, uuid.New())
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
