package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

func TestCourses(t *testing.T) {
	f := newFixture(t)
	owner := f.lecturer()
	other := f.user("other", models.RoleLecturer)
	student := f.students(1)[0]

	course, err := f.courses.CreateCourse(f.ctx, owner, &dto.CreateCourseRequest{Name: " CS101 "})
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Name)

	_, err = f.courses.CreateCourse(f.ctx, owner, &dto.CreateCourseRequest{Name: "CS101"})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	_, err = f.courses.CreateCourse(f.ctx, student, &dto.CreateCourseRequest{Name: "CS102"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.courses.CreateCourse(f.ctx, other, &dto.CreateCourseRequest{Name: "CS101"})
	require.NoError(t, err)

	all, err := f.courses.ListCourses(f.ctx, owner, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.courses.ListCourses(f.ctx, owner, true)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	got, err := f.courses.GetCourse(f.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, got.LecturerID)

	_, err = f.courses.GetCourse(f.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
