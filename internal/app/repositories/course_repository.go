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

// PgCourseRepository handles database operations for courses
type PgCourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db DBTX) *PgCourseRepository {
	return &PgCourseRepository{db: db}
}

func (r *PgCourseRepository) selectCourses() squirrel.SelectBuilder {
	return psql.Select("id", "name", "lecturer_id", "created_at").From("courses")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.ID, &c.Name, &c.LecturerID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateCourse inserts a course and returns its ID
func (r *PgCourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := psql.Insert("courses").
		Columns("name", "lecturer_id").
		Values(course.Name, course.LecturerID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_lecturer_name_key") {
			return 0, apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "course already exists")
		}
		logger.Error().Err(err).Int64("lecturerID", course.LecturerID).Msg("Error creating course")
		return 0, err
	}
	return course.ID, nil
}

// GetCourseByID retrieves a course by ID
func (r *PgCourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectCourses().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// GetCourseByName retrieves one of the lecturer's courses by name
func (r *PgCourseRepository) GetCourseByName(ctx context.Context, lecturerID int64, name string) (*models.Course, error) {
	sql, args, err := r.selectCourses().Where(squirrel.Eq{"lecturer_id": lecturerID, "name": name}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// ListCourses lists courses ordered by name, optionally restricted to one lecturer
func (r *PgCourseRepository) ListCourses(ctx context.Context, lecturerID *int64) ([]*models.Course, error) {
	builder := r.selectCourses().OrderBy("name ASC", "id ASC")
	if lecturerID != nil {
		builder = builder.Where(squirrel.Eq{"lecturer_id": *lecturerID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
