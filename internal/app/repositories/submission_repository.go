package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/dberrors"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// PgSubmissionRepository handles database operations for submissions
type PgSubmissionRepository struct {
	db DBTX
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db DBTX) *PgSubmissionRepository {
	return &PgSubmissionRepository{db: db}
}

func (r *PgSubmissionRepository) selectSubmissions() squirrel.SelectBuilder {
	return psql.Select(
		"id", "assignment_id", "group_id", "student_id",
		"file_url", "submission_link", "supporting_link", "submitted_at",
	).From("submissions")
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(&s.ID, &s.AssignmentID, &s.GroupID, &s.StudentID,
		&s.FileURL, &s.SubmissionLink, &s.SupportingLink, &s.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgSubmissionRepository) querySubmissions(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Submission, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying submissions")
		return nil, err
	}
	defer rows.Close()

	submissions := []*models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// CreateSubmission inserts a submission and returns its ID
func (r *PgSubmissionRepository) CreateSubmission(ctx context.Context, s *models.Submission) (int64, error) {
	sql, args, err := psql.Insert("submissions").
		Columns("assignment_id", "group_id", "student_id", "file_url", "submission_link", "supporting_link", "submitted_at").
		Values(s.AssignmentID, s.GroupID, s.StudentID, s.FileURL, s.SubmissionLink, s.SupportingLink, s.SubmittedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "submissions_assignment_student_key") {
			return 0, apperrors.ErrAlreadySubmitted
		}
		logger.Error().Err(err).
			Int64("assignmentID", s.AssignmentID).
			Int64("studentID", s.StudentID).
			Msg("Error creating submission")
		return 0, err
	}
	return s.ID, nil
}

// ExistsForStudent reports whether the student already submitted the assignment
func (r *PgSubmissionRepository) ExistsForStudent(ctx context.Context, assignmentID, studentID int64) (bool, error) {
	sql, args, err := psql.Select("1").From("submissions").
		Where(squirrel.Eq{"assignment_id": assignmentID, "student_id": studentID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	return exists, err
}

// GetByStudent retrieves the student's submission for an assignment
func (r *PgSubmissionRepository) GetByStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	sql, args, err := r.selectSubmissions().
		Where(squirrel.Eq{"assignment_id": assignmentID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanSubmission(r.db.QueryRow(ctx, sql, args...))
}

// ListByAssignment lists submissions of an assignment in submission order
func (r *PgSubmissionRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]*models.Submission, error) {
	return r.querySubmissions(ctx, r.selectSubmissions().
		Where(squirrel.Eq{"assignment_id": assignmentID}).
		OrderBy("submitted_at ASC", "id ASC"))
}

// ListByStudent lists the student's submissions
func (r *PgSubmissionRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Submission, error) {
	return r.querySubmissions(ctx, r.selectSubmissions().
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id ASC"))
}

// CountByAssignment counts submissions per assignment
func (r *PgSubmissionRepository) CountByAssignment(ctx context.Context, assignmentIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return counts, nil
	}

	sql, args, err := psql.Select("assignment_id", "count(*)").From("submissions").
		Where(squirrel.Eq{"assignment_id": assignmentIDs}).
		GroupBy("assignment_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
