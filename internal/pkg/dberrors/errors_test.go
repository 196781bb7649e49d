package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "submissions_assignment_student_key"}
	wrapped := fmt.Errorf("insert submission: %w", pgErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, "submissions_assignment_student_key"))
	assert.False(t, IsDuplicateConstraintError(wrapped, "group_members_assignment_user_key"))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "assignments_course_id_fkey"}

	assert.True(t, IsForeignKeyViolation(pgErr, ""))
	assert.True(t, IsForeignKeyViolation(pgErr, "assignments_course_id_fkey"))
	assert.False(t, IsForeignKeyViolation(pgErr, "other"))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}, ""))
}
