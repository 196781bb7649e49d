package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/assigntrack/internal/app/auth"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// CourseService defines course operations
type CourseService interface {
	CreateCourse(ctx context.Context, p models.Principal, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id int64) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, p models.Principal, mine bool) ([]dto.CourseResponse, error)
}

type courseServiceImpl struct {
	store repositories.Store
	authz *auth.AuthorizationService
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, authz *auth.AuthorizationService) CourseService {
	return &courseServiceImpl{store: store, authz: authz}
}

// CreateCourse adds a course owned by the calling lecturer
func (s *courseServiceImpl) CreateCourse(ctx context.Context, p models.Principal, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.authz.RequireLecturer(p); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("course name is required")
	}

	course := &models.Course{Name: name, LecturerID: p.UserID}
	if _, err := s.store.Courses().CreateCourse(ctx, course); err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Int64("lecturerID", p.UserID).Msg("Course created")
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// GetCourse retrieves one course
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.store.Courses().GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCourseResponse(course)
	return &resp, nil
}

// ListCourses lists every course, or only the caller's own when mine is set
func (s *courseServiceImpl) ListCourses(ctx context.Context, p models.Principal, mine bool) ([]dto.CourseResponse, error) {
	var lecturerID *int64
	if mine && p.IsLecturer() {
		lecturerID = &p.UserID
	}

	courses, err := s.store.Courses().ListCourses(ctx, lecturerID)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		result = append(result, dto.NewCourseResponse(c))
	}
	return result, nil
}
