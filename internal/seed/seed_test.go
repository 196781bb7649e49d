package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories/memory"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	opts := Options{LecturerEmail: "demo.lecturer@uni.edu", LecturerPassword: "lecturer123"}

	require.NoError(t, CreateDefaultData(ctx, store, opts, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, store, opts, zerolog.Nop()))

	lecturer, err := store.Users().GetUserByLogin(ctx, "demo.lecturer")
	require.NoError(t, err)
	assert.Equal(t, appModels.RoleLecturer, lecturer.Role)

	courses, err := store.Courses().ListCourses(ctx, &lecturer.ID)
	require.NoError(t, err)
	assert.Len(t, courses, len(DefaultCourses))
}

func TestCreateDefaultDataRejectsStudentEmail(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_, err := store.Users().CreateUser(ctx, &appModels.User{Email: "x@uni.edu", Username: "x", Role: appModels.RoleStudent})
	require.NoError(t, err)

	err = CreateDefaultData(ctx, store, Options{LecturerEmail: "x@uni.edu", LecturerPassword: "pw123456"}, zerolog.Nop())
	assert.Error(t, err)
}
