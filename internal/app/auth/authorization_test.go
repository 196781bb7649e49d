package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories/memory"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

func TestRoleChecks(t *testing.T) {
	authz := NewAuthorizationService(memory.NewStore())
	student := models.Principal{UserID: 1, Role: models.RoleStudent}
	lecturer := models.Principal{UserID: 2, Role: models.RoleLecturer}

	assert.NoError(t, authz.RequireStudent(student))
	assert.ErrorIs(t, authz.RequireStudent(lecturer), apperrors.ErrPermissionDenied)
	assert.NoError(t, authz.RequireLecturer(lecturer))
	assert.ErrorIs(t, authz.RequireLecturer(student), apperrors.ErrLecturerOnly)
}

func TestAuthorizeAssignmentOwner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	authz := NewAuthorizationService(store)

	a := &models.Assignment{AuthorID: 2, Title: "x", Deadline: time.Now(), GroupPolicy: models.GroupPolicyIndividual}
	_, err := store.Assignments().CreateAssignment(ctx, a)
	require.NoError(t, err)

	owner := models.Principal{UserID: 2, Role: models.RoleLecturer}
	other := models.Principal{UserID: 3, Role: models.RoleLecturer}
	student := models.Principal{UserID: 2, Role: models.RoleStudent}

	got, err := authz.AuthorizeAssignmentOwner(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = authz.AuthorizeAssignmentOwner(ctx, other, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAssignmentOwner)

	_, err = authz.AuthorizeAssignmentOwner(ctx, student, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrLecturerOnly)

	_, err = authz.AuthorizeAssignmentOwner(ctx, owner, 999)
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}

func TestAuthorizeCourse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	authz := NewAuthorizationService(store)

	c := &models.Course{Name: "CS101", LecturerID: 2}
	_, err := store.Courses().CreateCourse(ctx, c)
	require.NoError(t, err)

	_, err = authz.AuthorizeCourse(ctx, models.Principal{UserID: 2, Role: models.RoleLecturer}, c.ID)
	assert.NoError(t, err)
	_, err = authz.AuthorizeCourse(ctx, models.Principal{UserID: 3, Role: models.RoleLecturer}, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotCourseOwner)
	_, err = authz.AuthorizeCourse(ctx, models.Principal{UserID: 2, Role: models.RoleLecturer}, 50)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
