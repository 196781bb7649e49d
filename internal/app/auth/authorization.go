package auth

import (
	"context"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// AuthorizationService answers role and ownership questions about a principal.
// Role checks never touch storage: the role travels with the principal.
type AuthorizationService struct {
	store repositories.Store
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(store repositories.Store) *AuthorizationService {
	return &AuthorizationService{store: store}
}

// RequireStudent fails unless the principal is a student
func (s *AuthorizationService) RequireStudent(p models.Principal) error {
	if !p.IsStudent() {
		return apperrors.ErrStudentOnly
	}
	return nil
}

// RequireLecturer fails unless the principal is a lecturer
func (s *AuthorizationService) RequireLecturer(p models.Principal) error {
	if !p.IsLecturer() {
		return apperrors.ErrLecturerOnly
	}
	return nil
}

// CanManageAssignment reports whether the principal is the lecturer who owns the assignment
func (s *AuthorizationService) CanManageAssignment(p models.Principal, a *models.Assignment) bool {
	return p.IsLecturer() && a.IsOwnedBy(p.UserID)
}

// AuthorizeAssignmentOwner loads the assignment and verifies the principal owns it
func (s *AuthorizationService) AuthorizeAssignmentOwner(ctx context.Context, p models.Principal, assignmentID int64) (*models.Assignment, error) {
	if err := s.RequireLecturer(p); err != nil {
		return nil, err
	}

	assignment, err := s.store.Assignments().GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Error().Err(err).Int64("assignmentID", assignmentID).Msg("Error loading assignment for authorization")
		}
		return nil, err
	}

	if !s.CanManageAssignment(p, assignment) {
		return nil, apperrors.ErrNotAssignmentOwner
	}
	return assignment, nil
}

// AuthorizeCourse verifies the course exists and belongs to the lecturer
func (s *AuthorizationService) AuthorizeCourse(ctx context.Context, p models.Principal, courseID int64) (*models.Course, error) {
	course, err := s.store.Courses().GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.LecturerID != p.UserID {
		return nil, apperrors.ErrNotCourseOwner
	}
	return course, nil
}
