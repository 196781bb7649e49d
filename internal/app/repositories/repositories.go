package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/assigntrack/internal/app/models"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository is the identity and role directory.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	// ListActiveStudents returns active students ordered by ID. The order is the
	// roster enumeration order used for automatic allocation.
	ListActiveStudents(ctx context.Context) ([]*models.User, error)
}

// CourseRepository stores lecturer-owned courses.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetCourseByName(ctx context.Context, lecturerID int64, name string) (*models.Course, error)
	ListCourses(ctx context.Context, lecturerID *int64) ([]*models.Course, error)
}

// ListAssignmentsParams holds filters and pagination for assignment listings.
type ListAssignmentsParams struct {
	AuthorID *int64
	CourseID *int64
	Page     int
	Size     int
}

// AssignmentRepository is the assignment catalog.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment *models.Assignment) (int64, error)
	GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error)
	// ListAssignments returns a page ordered by deadline plus the total item count.
	ListAssignments(ctx context.Context, params ListAssignmentsParams) ([]*models.Assignment, int64, error)
	// ListAllAssignments returns every assignment matching authorID (nil for all) ordered by deadline.
	ListAllAssignments(ctx context.Context, authorID *int64) ([]*models.Assignment, error)
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	// DeleteAssignment removes the assignment together with its groups, memberships and submissions.
	DeleteAssignment(ctx context.Context, id int64) error
}

// GroupRepository stores groups and the membership relation.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) (int64, error)
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)
	// LockGroup loads the group and holds a row lock on it until the surrounding
	// transaction ends, serializing concurrent membership changes.
	LockGroup(ctx context.Context, id int64) (*models.Group, error)
	// GetOrCreateGroup returns the group named name in the assignment, creating it if needed.
	GetOrCreateGroup(ctx context.Context, assignmentID int64, name string) (*models.Group, error)
	ListGroupsByAssignment(ctx context.Context, assignmentID int64) ([]*models.GroupWithMembers, error)
	ListGroupsByMember(ctx context.Context, userID int64) ([]*models.Group, error)
	CountMembers(ctx context.Context, groupID int64) (int, error)
	MemberCountsByAssignment(ctx context.Context, assignmentIDs []int64) (map[int64]int, error)
	GroupCountsByAssignment(ctx context.Context, assignmentIDs []int64) (map[int64]int, error)
	// FindMemberGroup returns the user's group in the assignment, or nil when there is none.
	FindMemberGroup(ctx context.Context, assignmentID, userID int64) (*models.Group, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	// AddMember inserts a membership row. It fails with apperrors.ErrAlreadyInGroup when the
	// user already belongs to a group of the same assignment.
	AddMember(ctx context.Context, groupID, assignmentID, userID int64) error
}

// SubmissionRepository stores submissions.
type SubmissionRepository interface {
	// CreateSubmission fails with apperrors.ErrAlreadySubmitted when the student already
	// has a submission for the assignment.
	CreateSubmission(ctx context.Context, submission *models.Submission) (int64, error)
	ExistsForStudent(ctx context.Context, assignmentID, studentID int64) (bool, error)
	GetByStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID int64) ([]*models.Submission, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Submission, error)
	CountByAssignment(ctx context.Context, assignmentIDs []int64) (map[int64]int, error)
}

// Store bundles the repositories over one data source.
type Store interface {
	Users() UserRepository
	Courses() CourseRepository
	Assignments() AssignmentRepository
	Groups() GroupRepository
	Submissions() SubmissionRepository

	// WithinTx runs fn with a Store whose repositories share a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
