package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsUnwrapToKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "group full", err: ErrGroupFull, kind: ErrCapacityExceeded},
		{name: "already submitted", err: ErrAlreadySubmitted, kind: ErrDuplicate},
		{name: "already in group", err: ErrAlreadyInGroup, kind: ErrDuplicate},
		{name: "student only", err: ErrStudentOnly, kind: ErrPermissionDenied},
		{name: "deadline", err: ErrAssignmentDeadline, kind: ErrDeadlinePassed},
		{name: "empty submission", err: ErrSubmissionEmpty, kind: ErrValidationFailed},
		{name: "group not found", err: ErrGroupNotFound, kind: ErrResourceNotFound},
		{name: "wrapped", err: fmt.Errorf("join: %w", ErrGroupFull), kind: ErrCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.kind, Kind(tt.err))
		})
	}
}

func TestKindOfUnclassifiedError(t *testing.T) {
	assert.Nil(t, Kind(errors.New("connection reset")))
}

func TestWithDetailsKeepsIdentity(t *testing.T) {
	err := ErrGroupFull.WithDetails(map[string]interface{}{"memberCount": 3})

	assert.ErrorIs(t, err, ErrGroupFull)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, "group is full", err.Error())
	assert.Equal(t, 3, DetailsOf(err)["memberCount"])
	assert.Nil(t, DetailsOf(ErrGroupFull))
}

func TestIsMatchesAnyTarget(t *testing.T) {
	assert.True(t, Is(ErrGroupFull, ErrDuplicate, ErrCapacityExceeded))
	assert.False(t, Is(ErrGroupFull, ErrDuplicate, ErrResourceNotFound))
}
