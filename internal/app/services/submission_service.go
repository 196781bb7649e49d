package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/yigit/assigntrack/internal/app/auth"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/filestorage"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// SubmissionService defines the submission operations
type SubmissionService interface {
	Submit(ctx context.Context, p models.Principal, assignmentID int64, req *dto.SubmitRequest, file *multipart.FileHeader) (*dto.SubmissionResponse, error)
	GetStatus(ctx context.Context, p models.Principal, assignmentID int64) (*dto.StatusResponse, error)
	ListSubmissions(ctx context.Context, p models.Principal, assignmentID int64) ([]dto.SubmissionResponse, error)
}

type submissionServiceImpl struct {
	store     repositories.Store
	authz     *auth.AuthorizationService
	files     filestorage.FileStorage
	publisher EventPublisher
	now       Clock
}

// NewSubmissionService creates a new SubmissionService. files may be nil, in which
// case file uploads are rejected and only links are accepted.
func NewSubmissionService(
	store repositories.Store,
	authz *auth.AuthorizationService,
	files filestorage.FileStorage,
	publisher EventPublisher,
	clock Clock,
) SubmissionService {
	return &submissionServiceImpl{
		store:     store,
		authz:     authz,
		files:     files,
		publisher: publisherOrDefault(publisher),
		now:       clockOrDefault(clock),
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submit validates the attempt and records the submission in one transaction.
// A file is uploaded only after a read-only eligibility pass, outside the
// transaction, and is removed again when the row is not written.
func (s *submissionServiceImpl) Submit(ctx context.Context, p models.Principal, assignmentID int64, req *dto.SubmitRequest, file *multipart.FileHeader) (*dto.SubmissionResponse, error) {
	if err := s.authz.RequireStudent(p); err != nil {
		return nil, err
	}

	now := s.now()
	attempt := SubmissionAttempt{
		Principal:      p,
		HasFile:        file != nil && file.Size > 0,
		Link:           req.Link,
		SupportingLink: req.SupportingLink,
		GroupID:        req.GroupID,
	}

	var uploadedURL string
	if attempt.HasFile {
		var err error
		if uploadedURL, err = s.uploadSubmissionFile(ctx, attempt, assignmentID, file, now); err != nil {
			return nil, err
		}
	}

	var submission *models.Submission
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		assignment, err := tx.Assignments().GetAssignmentByID(ctx, assignmentID)
		if err != nil {
			return err
		}

		attempt.Assignment = assignment
		group, err := CheckSubmissionEligibility(ctx, tx, attempt, now)
		if err != nil {
			return err
		}

		submission = &models.Submission{
			AssignmentID:   assignment.ID,
			GroupID:        group.ID,
			StudentID:      p.UserID,
			SubmissionLink: optionalString(req.Link),
			SupportingLink: optionalString(req.SupportingLink),
			SubmittedAt:    now,
		}
		if uploadedURL != "" {
			submission.FileURL = &uploadedURL
		}

		_, err = tx.Submissions().CreateSubmission(ctx, submission)
		return err
	})
	if err != nil {
		if uploadedURL != "" {
			if delErr := s.files.DeleteFile(context.WithoutCancel(ctx), uploadedURL); delErr != nil {
				logger.Warn().Err(delErr).Str("url", uploadedURL).Msg("Failed to remove orphaned submission file")
			}
		}
		if apperrors.Kind(err) == nil {
			logger.Error().Err(err).Int64("assignmentID", assignmentID).Int64("userID", p.UserID).Msg("Error creating submission")
		}
		return nil, err
	}

	logger.Info().
		Int64("assignmentID", submission.AssignmentID).
		Int64("groupID", submission.GroupID).
		Int64("studentID", submission.StudentID).
		Msg("Submission recorded")

	resp := dto.NewSubmissionResponse(submission)
	s.publisher.Publish(submission.AssignmentID, EventSubmissionCreated, map[string]interface{}{
		"submissionId": submission.ID,
		"groupId":      submission.GroupID,
		"studentId":    submission.StudentID,
	})
	return &resp, nil
}

// uploadSubmissionFile stores the file once every read-only check has passed.
// No pool connection is held while the bucket is written.
func (s *submissionServiceImpl) uploadSubmissionFile(ctx context.Context, attempt SubmissionAttempt, assignmentID int64, file *multipart.FileHeader, now time.Time) (string, error) {
	assignment, err := s.store.Assignments().GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return "", err
	}
	attempt.Assignment = assignment
	if _, err := precheckSubmission(ctx, s.store, attempt, now); err != nil {
		return "", err
	}

	if s.files == nil {
		return "", apperrors.ErrUploadNotConfigured
	}
	url, err := s.files.SaveFileWithPath(ctx, file, fmt.Sprintf("submissions/%d", assignment.ID))
	if err != nil {
		logger.Error().Err(err).Int64("assignmentID", assignment.ID).Int64("userID", attempt.Principal.UserID).Msg("Error storing submission file")
		return "", fmt.Errorf("error storing submission file: %w", err)
	}
	return url, nil
}

// GetStatus derives the caller's status for an assignment
func (s *submissionServiceImpl) GetStatus(ctx context.Context, p models.Principal, assignmentID int64) (*dto.StatusResponse, error) {
	assignment, err := s.store.Assignments().GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatusResponse{AssignmentID: assignment.ID, Deadline: assignment.Deadline}

	submission, err := s.store.Submissions().GetByStudent(ctx, assignment.ID, p.UserID)
	switch {
	case err == nil:
		sr := dto.NewSubmissionResponse(submission)
		resp.Submission = &sr
	case !errors.Is(err, apperrors.ErrSubmissionNotFound):
		return nil, fmt.Errorf("error loading submission: %w", err)
	}

	resp.Status = models.DeriveStatus(resp.Submission != nil, assignment.Deadline, s.now())
	return resp, nil
}

// ListSubmissions lists every submission of an assignment for its owner
func (s *submissionServiceImpl) ListSubmissions(ctx context.Context, p models.Principal, assignmentID int64) ([]dto.SubmissionResponse, error) {
	if _, err := s.authz.AuthorizeAssignmentOwner(ctx, p, assignmentID); err != nil {
		return nil, err
	}

	submissions, err := s.store.Submissions().ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		result = append(result, dto.NewSubmissionResponse(sub))
	}
	return result, nil
}
