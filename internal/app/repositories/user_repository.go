package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/dberrors"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var userColumns = []string{
	"id", "email", "username", "password", "first_name", "last_name", "role", "is_active", "created_at", "updated_at",
}

// PgUserRepository handles database operations for users
type PgUserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user and returns its ID
func (r *PgUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := psql.Insert("users").
		Columns("email", "username", "password", "first_name", "last_name", "role", "is_active").
		Values(strings.ToLower(user.Email), user.Username, user.Password, user.FirstName, user.LastName, user.Role, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
			return 0, apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "users_username_key"):
			return 0, apperrors.ErrUsernameExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return 0, err
	}
	return user.ID, nil
}

// GetUserByID retrieves a user by ID
func (r *PgUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByLogin retrieves a user by email (case-insensitive) or username
func (r *PgUserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").
		Where(squirrel.Or{
			squirrel.Eq{"email": strings.ToLower(login)},
			squirrel.Eq{"username": login},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUsersByIDs retrieves users keyed by ID. Unknown IDs are skipped.
func (r *PgUserRepository) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	sql, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}

// ListActiveStudents returns active students ordered by ID
func (r *PgUserRepository) ListActiveStudents(ctx context.Context) ([]*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").
		Where(squirrel.Eq{"role": models.RoleStudent, "is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing active students")
		return nil, err
	}
	defer rows.Close()

	var students []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}
