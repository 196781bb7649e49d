package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/assigntrack/internal/app/models"
	appRepos "github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/assigntrack/internal/pkg/auth"
)

// DefaultCourses are created for the demo lecturer
var DefaultCourses = []string{
	"CS101 - Introduction to Programming",
	"CS201 - Data Structures",
	"CS301 - Algorithms",
	"CS342 - Operating Systems",
}

// Options configures the demo data
type Options struct {
	LecturerEmail    string
	LecturerPassword string
}

// CreateDefaultData creates the demo lecturer and their courses if they don't exist.
// It is safe to run on every startup.
func CreateDefaultData(ctx context.Context, store appRepos.Store, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (lecturer/courses)...")

	lecturer, err := ensureLecturer(ctx, store, opts)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo lecturer")
		return err
	}

	var finalErr error // To collect potential errors without stopping the process
	created := 0
	for _, name := range DefaultCourses {
		_, err := store.Courses().GetCourseByName(ctx, lecturer.ID, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			finalErr = errors.Join(finalErr, err)
			continue
		}

		course := &appModels.Course{Name: name, LecturerID: lecturer.ID}
		if _, err := store.Courses().CreateCourse(ctx, course); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			lgr.Error().Err(err).Str("course", name).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int64("lecturerID", lecturer.ID).Int("coursesCreated", created).Msg("Default data ready")
	return finalErr
}

func ensureLecturer(ctx context.Context, store appRepos.Store, opts Options) (*appModels.User, error) {
	existing, err := store.Users().GetUserByLogin(ctx, opts.LecturerEmail)
	if err == nil {
		if existing.Role != appModels.RoleLecturer {
			return nil, fmt.Errorf("seed user %s exists but is not a lecturer", opts.LecturerEmail)
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	hashed, err := pkgAuth.HashPassword(opts.LecturerPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing seed password: %w", err)
	}

	username := strings.SplitN(opts.LecturerEmail, "@", 2)[0]
	lecturer := &appModels.User{
		Email:     opts.LecturerEmail,
		Username:  username,
		Password:  hashed,
		FirstName: "Demo",
		LastName:  "Lecturer",
		Role:      appModels.RoleLecturer,
		IsActive:  true,
	}
	if _, err := store.Users().CreateUser(ctx, lecturer); err != nil {
		return nil, err
	}
	return lecturer, nil
}
