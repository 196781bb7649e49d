package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/assigntrack/internal/db"
)

// PostgresStore is the Store backed by a pgx connection pool
type PostgresStore struct {
	database    *db.PostgresDB
	users       *PgUserRepository
	courses     *PgCourseRepository
	assignments *PgAssignmentRepository
	groups      *PgGroupRepository
	submissions *PgSubmissionRepository
}

// NewPostgresStore creates a store whose repositories run on the pool
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	s := newPgStore(database.Pool)
	s.database = database
	return s
}

func newPgStore(conn DBTX) *PostgresStore {
	return &PostgresStore{
		users:       NewUserRepository(conn),
		courses:     NewCourseRepository(conn),
		assignments: NewAssignmentRepository(conn),
		groups:      NewGroupRepository(conn),
		submissions: NewSubmissionRepository(conn),
	}
}

func (s *PostgresStore) Users() UserRepository             { return s.users }
func (s *PostgresStore) Courses() CourseRepository         { return s.courses }
func (s *PostgresStore) Assignments() AssignmentRepository { return s.assignments }
func (s *PostgresStore) Groups() GroupRepository           { return s.groups }
func (s *PostgresStore) Submissions() SubmissionRepository { return s.submissions }

// WithinTx runs fn inside a database transaction. Nested calls reuse the outer transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.database == nil {
		return fn(ctx, s)
	}
	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newPgStore(tx))
	})
}
