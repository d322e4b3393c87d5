package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		serialization bool
		exclusion     bool
		foreignKey    bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{name: "serialization failure", err: &pgconn.PgError{Code: CodeSerializationFailure}, serialization: true},
		{name: "deadlock", err: &pgconn.PgError{Code: CodeDeadlockDetected}, serialization: true},
		{name: "wrapped serialization failure", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: CodeSerializationFailure}), serialization: true},
		{name: "exclusion violation", err: &pgconn.PgError{Code: CodeExclusionViolation}, exclusion: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: CodeForeignKeyViolation}, foreignKey: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.serialization, IsSerializationFailure(tt.err))
			assert.Equal(t, tt.exclusion, IsExclusionViolation(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyViolation(tt.err))
		})
	}
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("insert booking: %w", &pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: "bookings_room_id_fkey"})

	assert.Equal(t, "bookings_room_id_fkey", ConstraintName(err))
	assert.Empty(t, ConstraintName(errors.New("boom")))
}
