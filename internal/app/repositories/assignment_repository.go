package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/dberrors"
	"github.com/yigit/assigntrack/internal/pkg/helpers"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// PgAssignmentRepository handles database operations for assignments
type PgAssignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db DBTX) *PgAssignmentRepository {
	return &PgAssignmentRepository{db: db}
}

func (r *PgAssignmentRepository) selectAssignments() squirrel.SelectBuilder {
	return psql.Select(
		"id", "author_id", "course_id", "title", "content", "deadline",
		"attachment_url", "group_policy", "max_group_size", "created_at",
	).From("assignments")
}

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(&a.ID, &a.AuthorID, &a.CourseID, &a.Title, &a.Content, &a.Deadline,
		&a.AttachmentURL, &a.GroupPolicy, &a.MaxGroupSize, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning assignment")
		return nil, err
	}
	return &a, nil
}

func (r *PgAssignmentRepository) queryAssignments(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Assignment, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying assignments")
		return nil, err
	}
	defer rows.Close()

	assignments := []*models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CreateAssignment inserts an assignment and returns its ID
func (r *PgAssignmentRepository) CreateAssignment(ctx context.Context, a *models.Assignment) (int64, error) {
	sql, args, err := psql.Insert("assignments").
		Columns("author_id", "course_id", "title", "content", "deadline", "attachment_url", "group_policy", "max_group_size").
		Values(a.AuthorID, a.CourseID, a.Title, a.Content, a.Deadline, a.AttachmentURL, a.GroupPolicy, a.MaxGroupSize).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err, "assignments_course_id_fkey") {
			return 0, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("authorID", a.AuthorID).Msg("Error creating assignment")
		return 0, err
	}
	return a.ID, nil
}

// GetAssignmentByID retrieves an assignment by ID
func (r *PgAssignmentRepository) GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error) {
	sql, args, err := r.selectAssignments().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAssignment(r.db.QueryRow(ctx, sql, args...))
}

func assignmentFilters(params ListAssignmentsParams) squirrel.And {
	filters := squirrel.And{}
	if params.AuthorID != nil {
		filters = append(filters, squirrel.Eq{"author_id": *params.AuthorID})
	}
	if params.CourseID != nil {
		filters = append(filters, squirrel.Eq{"course_id": *params.CourseID})
	}
	return filters
}

// ListAssignments returns one page of assignments ordered by deadline and the total count
func (r *PgAssignmentRepository) ListAssignments(ctx context.Context, params ListAssignmentsParams) ([]*models.Assignment, int64, error) {
	filters := assignmentFilters(params)

	countSQL, countArgs, err := psql.Select("count(*)").From("assignments").Where(filters).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting assignments")
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Assignment{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	assignments, err := r.queryAssignments(ctx, r.selectAssignments().
		Where(filters).
		OrderBy("deadline ASC", "id ASC").
		Offset(offset).
		Limit(uint64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// ListAllAssignments returns every assignment, optionally of one author, ordered by deadline
func (r *PgAssignmentRepository) ListAllAssignments(ctx context.Context, authorID *int64) ([]*models.Assignment, error) {
	return r.queryAssignments(ctx, r.selectAssignments().
		Where(assignmentFilters(ListAssignmentsParams{AuthorID: authorID})).
		OrderBy("deadline ASC", "id ASC"))
}

// UpdateAssignment saves the editable fields. Group policy is never updated.
func (r *PgAssignmentRepository) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	sql, args, err := psql.Update("assignments").
		Set("course_id", a.CourseID).
		Set("title", a.Title).
		Set("content", a.Content).
		Set("deadline", a.Deadline).
		Set("attachment_url", a.AttachmentURL).
		Set("max_group_size", a.MaxGroupSize).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "assignments_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("assignmentID", a.ID).Msg("Error updating assignment")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// DeleteAssignment deletes an assignment. Groups, memberships and submissions cascade.
func (r *PgAssignmentRepository) DeleteAssignment(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("assignments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("assignmentID", id).Msg("Error deleting assignment")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}
