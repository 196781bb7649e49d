package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/yigit/assigntrack/internal/app/auth"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/filestorage"
	"github.com/yigit/assigntrack/internal/pkg/helpers"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

var errGroupSizeBelowMembers = apperrors.NewCustomError(apperrors.ErrValidationFailed,
	"max group size cannot be smaller than an existing group")

// AssignmentService defines the assignment catalog operations
type AssignmentService interface {
	CreateAssignment(ctx context.Context, p models.Principal, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	GetAssignment(ctx context.Context, id int64) (*dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context, p models.Principal, filter *dto.AssignmentFilter) (*dto.AssignmentListResponse, error)
	UpdateAssignment(ctx context.Context, p models.Principal, id int64, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	DeleteAssignment(ctx context.Context, p models.Principal, id int64) error
	UploadAttachment(ctx context.Context, p models.Principal, id int64, file *multipart.FileHeader) (*dto.AssignmentResponse, error)
	Review(ctx context.Context, p models.Principal, id int64) (*dto.ReviewResponse, error)
	GroupsOverview(ctx context.Context, p models.Principal, id int64) (*dto.GroupsOverviewResponse, error)
}

type assignmentServiceImpl struct {
	store repositories.Store
	authz *auth.AuthorizationService
	files filestorage.FileStorage
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(store repositories.Store, authz *auth.AuthorizationService, files filestorage.FileStorage) AssignmentService {
	return &assignmentServiceImpl{store: store, authz: authz, files: files}
}

// CreateAssignment stores the assignment and, for group policies, allocates its
// groups in the same transaction.
func (s *assignmentServiceImpl) CreateAssignment(ctx context.Context, p models.Principal, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if err := s.authz.RequireLecturer(p); err != nil {
		return nil, err
	}

	policy, ok := models.ParseGroupPolicy(req.GroupPolicy)
	if !ok {
		return nil, apperrors.ErrInvalidGroupPolicy
	}

	title, content := strings.TrimSpace(req.Title), strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content are required")
	}
	if req.Deadline.IsZero() {
		return nil, apperrors.ErrInvalidDeadline
	}

	assignment := &models.Assignment{
		AuthorID:    p.UserID,
		Title:       title,
		Content:     content,
		Deadline:    req.Deadline.UTC(),
		GroupPolicy: policy,
	}

	if policy.UsesGroups() {
		if req.MaxGroupSize == nil || *req.MaxGroupSize <= 0 {
			return nil, apperrors.ErrGroupSizeRequired
		}
		size := *req.MaxGroupSize
		assignment.MaxGroupSize = &size
	}

	if req.CourseID != nil {
		if _, err := s.authz.AuthorizeCourse(ctx, p, *req.CourseID); err != nil {
			return nil, err
		}
		assignment.CourseID = req.CourseID
	}

	var groupsCreated int
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Assignments().CreateAssignment(ctx, assignment); err != nil {
			return err
		}
		var err error
		groupsCreated, err = allocateGroups(ctx, tx, assignment)
		return err
	})
	if err != nil {
		if apperrors.Kind(err) == nil {
			logger.Error().Err(err).Int64("authorID", p.UserID).Msg("Error creating assignment")
		}
		return nil, err
	}

	logger.Info().
		Int64("assignmentID", assignment.ID).
		Str("policy", string(policy)).
		Int("groupsCreated", groupsCreated).
		Msg("Assignment created")

	resp := dto.NewAssignmentResponse(assignment)
	resp.GroupsCreated = groupsCreated
	return &resp, nil
}

// GetAssignment retrieves one assignment
func (s *assignmentServiceImpl) GetAssignment(ctx context.Context, id int64) (*dto.AssignmentResponse, error) {
	assignment, err := s.store.Assignments().GetAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAssignmentResponse(assignment)
	return &resp, nil
}

// ListAssignments returns a page of assignments ordered by deadline
func (s *assignmentServiceImpl) ListAssignments(ctx context.Context, p models.Principal, filter *dto.AssignmentFilter) (*dto.AssignmentListResponse, error) {
	params := repositories.ListAssignmentsParams{
		CourseID: filter.CourseID,
		Page:     filter.Page,
		Size:     filter.Size,
	}
	if filter.Mine && p.IsLecturer() {
		params.AuthorID = &p.UserID
	}

	assignments, total, err := s.store.Assignments().ListAssignments(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	resp := &dto.AssignmentListResponse{
		Assignments: make([]dto.AssignmentResponse, 0, len(assignments)),
		Pagination:  helpers.NewPaginationInfo(total, filter.Page, filter.Size),
	}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, dto.NewAssignmentResponse(a))
	}
	return resp, nil
}

// UpdateAssignment applies a partial update. The group policy is fixed at creation.
func (s *assignmentServiceImpl) UpdateAssignment(ctx context.Context, p models.Principal, id int64, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	var updated *models.Assignment
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		assignment, err := auth.NewAuthorizationService(tx).AuthorizeAssignmentOwner(ctx, p, id)
		if err != nil {
			return err
		}

		if req.GroupPolicy != nil {
			policy, ok := models.ParseGroupPolicy(*req.GroupPolicy)
			if !ok {
				return apperrors.ErrInvalidGroupPolicy
			}
			if policy != assignment.GroupPolicy {
				return apperrors.ErrPolicyChangeRejected
			}
		}

		if req.Title != nil {
			if assignment.Title = strings.TrimSpace(*req.Title); assignment.Title == "" {
				return apperrors.NewValidationError("title cannot be empty")
			}
		}
		if req.Content != nil {
			if assignment.Content = strings.TrimSpace(*req.Content); assignment.Content == "" {
				return apperrors.NewValidationError("content cannot be empty")
			}
		}
		if req.Deadline != nil {
			if req.Deadline.IsZero() {
				return apperrors.ErrInvalidDeadline
			}
			assignment.Deadline = req.Deadline.UTC()
		}
		if req.CourseID != nil {
			if _, err := auth.NewAuthorizationService(tx).AuthorizeCourse(ctx, p, *req.CourseID); err != nil {
				return err
			}
			assignment.CourseID = req.CourseID
		}

		if req.MaxGroupSize != nil && assignment.GroupPolicy.UsesGroups() {
			size := *req.MaxGroupSize
			if size <= 0 {
				return apperrors.ErrGroupSizeRequired
			}
			groups, err := tx.Groups().ListGroupsByAssignment(ctx, assignment.ID)
			if err != nil {
				return err
			}
			for _, g := range groups {
				if g.MemberCount() > size {
					return errGroupSizeBelowMembers
				}
			}
			assignment.MaxGroupSize = &size
		}

		if err := tx.Assignments().UpdateAssignment(ctx, assignment); err != nil {
			return err
		}
		updated = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewAssignmentResponse(updated)
	return &resp, nil
}

// DeleteAssignment removes an assignment with its groups and submissions, then
// cleans up stored files.
func (s *assignmentServiceImpl) DeleteAssignment(ctx context.Context, p models.Principal, id int64) error {
	assignment, err := s.authz.AuthorizeAssignmentOwner(ctx, p, id)
	if err != nil {
		return err
	}

	submissions, err := s.store.Submissions().ListByAssignment(ctx, id)
	if err != nil {
		return fmt.Errorf("error listing submissions: %w", err)
	}

	if err := s.store.Assignments().DeleteAssignment(ctx, id); err != nil {
		return err
	}

	var urls []string
	if assignment.AttachmentURL != nil {
		urls = append(urls, *assignment.AttachmentURL)
	}
	for _, sub := range submissions {
		if sub.FileURL != nil {
			urls = append(urls, *sub.FileURL)
		}
	}
	s.removeFiles(ctx, urls)

	logger.Info().Int64("assignmentID", id).Int("submissions", len(submissions)).Msg("Assignment deleted")
	return nil
}

func (s *assignmentServiceImpl) removeFiles(ctx context.Context, urls []string) {
	if s.files == nil {
		return
	}
	for _, url := range urls {
		if err := s.files.DeleteFile(ctx, url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("Failed to remove stored file")
		}
	}
}

// UploadAttachment stores a file and links it to the assignment, replacing any previous one
func (s *assignmentServiceImpl) UploadAttachment(ctx context.Context, p models.Principal, id int64, file *multipart.FileHeader) (*dto.AssignmentResponse, error) {
	assignment, err := s.authz.AuthorizeAssignmentOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if file == nil || file.Size == 0 {
		return nil, apperrors.NewValidationError("file is required")
	}
	if s.files == nil {
		return nil, apperrors.ErrUploadNotConfigured
	}

	url, err := s.files.SaveFileWithPath(ctx, file, fmt.Sprintf("assignments/%d", id))
	if err != nil {
		return nil, fmt.Errorf("error storing attachment: %w", err)
	}

	previous := assignment.AttachmentURL
	assignment.AttachmentURL = &url
	if err := s.store.Assignments().UpdateAssignment(ctx, assignment); err != nil {
		s.removeFiles(ctx, []string{url})
		return nil, err
	}
	if previous != nil {
		s.removeFiles(ctx, []string{*previous})
	}

	resp := dto.NewAssignmentResponse(assignment)
	return &resp, nil
}

// Review lists, for the owner, who has handed in: students for individual
// assignments, groups otherwise.
func (s *assignmentServiceImpl) Review(ctx context.Context, p models.Principal, id int64) (*dto.ReviewResponse, error) {
	assignment, err := s.authz.AuthorizeAssignmentOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	submissions, err := s.store.Submissions().ListByAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}

	resp := &dto.ReviewResponse{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		GroupPolicy:  assignment.GroupPolicy,
	}

	if !assignment.GroupPolicy.UsesGroups() {
		byStudent := make(map[int64]*models.Submission, len(submissions))
		for _, sub := range submissions {
			byStudent[sub.StudentID] = sub
		}

		students, err := s.store.Users().ListActiveStudents(ctx)
		if err != nil {
			return nil, fmt.Errorf("error loading roster: %w", err)
		}

		resp.Students = make([]dto.ReviewStudent, 0, len(students))
		for _, st := range students {
			line := dto.ReviewStudent{Student: dto.NewMemberResponse(st)}
			if sub, ok := byStudent[st.ID]; ok {
				sr := dto.NewSubmissionResponse(sub)
				line.Submitted, line.Submission = true, &sr
			}
			resp.Students = append(resp.Students, line)
		}
		return resp, nil
	}

	groups, users, err := s.groupsWithUsers(ctx, id)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[int64][]dto.SubmissionResponse)
	for _, sub := range submissions {
		byGroup[sub.GroupID] = append(byGroup[sub.GroupID], dto.NewSubmissionResponse(sub))
	}

	resp.Groups = make([]dto.ReviewGroup, 0, len(groups))
	for _, g := range groups {
		subs := byGroup[g.ID]
		if subs == nil {
			subs = []dto.SubmissionResponse{}
		}
		resp.Groups = append(resp.Groups, dto.ReviewGroup{
			GroupID:     g.ID,
			Name:        g.Name,
			Members:     memberResponses(g.MemberIDs, users),
			Submitted:   len(subs) > 0,
			Submissions: subs,
		})
	}
	return resp, nil
}

// GroupsOverview lists every group with its members and whether it has handed in
func (s *assignmentServiceImpl) GroupsOverview(ctx context.Context, p models.Principal, id int64) (*dto.GroupsOverviewResponse, error) {
	assignment, err := s.authz.AuthorizeAssignmentOwner(ctx, p, id)
	if err != nil {
		return nil, err
	}

	groups, users, err := s.groupsWithUsers(ctx, id)
	if err != nil {
		return nil, err
	}

	submissions, err := s.store.Submissions().ListByAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	submitted := make(map[int64]bool, len(submissions))
	for _, sub := range submissions {
		submitted[sub.GroupID] = true
	}

	resp := &dto.GroupsOverviewResponse{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		Groups:       make([]dto.GroupOverviewItem, 0, len(groups)),
	}
	for _, g := range groups {
		status := models.StatusPending
		if submitted[g.ID] {
			status = models.StatusSubmitted
		}
		resp.Groups = append(resp.Groups, dto.GroupOverviewItem{
			GroupID:     g.ID,
			Name:        g.Name,
			MemberCount: g.MemberCount(),
			Members:     memberResponses(g.MemberIDs, users),
			Status:      string(status),
		})
	}
	return resp, nil
}

func (s *assignmentServiceImpl) groupsWithUsers(ctx context.Context, assignmentID int64) ([]*models.GroupWithMembers, map[int64]*models.User, error) {
	groups, err := s.store.Groups().ListGroupsByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing groups: %w", err)
	}
	users, err := s.store.Users().GetUsersByIDs(ctx, memberIDs(groups))
	if err != nil {
		return nil, nil, fmt.Errorf("error loading group members: %w", err)
	}
	return groups, users, nil
}

