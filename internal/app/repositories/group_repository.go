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

// PgGroupRepository handles database operations for groups and memberships
type PgGroupRepository struct {
	db DBTX
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db DBTX) *PgGroupRepository {
	return &PgGroupRepository{db: db}
}

func (r *PgGroupRepository) selectGroups() squirrel.SelectBuilder {
	return psql.Select("g.id", "g.assignment_id", "g.name", "g.created_at").From("assignment_groups g")
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	if err := row.Scan(&g.ID, &g.AssignmentID, &g.Name, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *PgGroupRepository) queryGroups(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Group, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CreateGroup inserts a group and returns its ID
func (r *PgGroupRepository) CreateGroup(ctx context.Context, group *models.Group) (int64, error) {
	sql, args, err := psql.Insert("assignment_groups").
		Columns("assignment_id", "name").
		Values(group.AssignmentID, group.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&group.ID, &group.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "assignment_groups_assignment_name_key") {
			return 0, apperrors.NewCustomError(apperrors.ErrDuplicate, "a group with this name already exists")
		}
		logger.Error().Err(err).Int64("assignmentID", group.AssignmentID).Msg("Error creating group")
		return 0, err
	}
	return group.ID, nil
}

// GetGroupByID retrieves a group by ID
func (r *PgGroupRepository) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	sql, args, err := r.selectGroups().Where(squirrel.Eq{"g.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanGroup(r.db.QueryRow(ctx, sql, args...))
}

// LockGroup retrieves a group and locks its row until the transaction ends
func (r *PgGroupRepository) LockGroup(ctx context.Context, id int64) (*models.Group, error) {
	sql, args, err := r.selectGroups().Where(squirrel.Eq{"g.id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanGroup(r.db.QueryRow(ctx, sql, args...))
}

// GetOrCreateGroup returns the named group of an assignment, creating it when missing
func (r *PgGroupRepository) GetOrCreateGroup(ctx context.Context, assignmentID int64, name string) (*models.Group, error) {
	sql, args, err := psql.Insert("assignment_groups").
		Columns("assignment_id", "name").
		Values(assignmentID, name).
		Suffix("ON CONFLICT (assignment_id, name) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("assignmentID", assignmentID).Str("name", name).Msg("Error creating group")
		return nil, err
	}

	sql, args, err = r.selectGroups().Where(squirrel.Eq{"g.assignment_id": assignmentID, "g.name": name}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanGroup(r.db.QueryRow(ctx, sql, args...))
}

// ListGroupsByAssignment lists the groups of an assignment ordered by ID, with member IDs in join order
func (r *PgGroupRepository) ListGroupsByAssignment(ctx context.Context, assignmentID int64) ([]*models.GroupWithMembers, error) {
	groups, err := r.queryGroups(ctx, r.selectGroups().
		Where(squirrel.Eq{"g.assignment_id": assignmentID}).
		OrderBy("g.id ASC"))
	if err != nil {
		return nil, err
	}

	sql, args, err := psql.Select("group_id", "user_id").From("group_members").
		Where(squirrel.Eq{"assignment_id": assignmentID}).
		OrderBy("joined_at ASC", "user_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make(map[int64][]int64)
	for rows.Next() {
		var groupID, userID int64
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, err
		}
		members[groupID] = append(members[groupID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*models.GroupWithMembers, 0, len(groups))
	for _, g := range groups {
		ids := members[g.ID]
		if ids == nil {
			ids = []int64{}
		}
		result = append(result, &models.GroupWithMembers{Group: *g, MemberIDs: ids})
	}
	return result, nil
}

// ListGroupsByMember lists every group the user belongs to, ordered by ID
func (r *PgGroupRepository) ListGroupsByMember(ctx context.Context, userID int64) ([]*models.Group, error) {
	return r.queryGroups(ctx, r.selectGroups().
		Join("group_members m ON m.group_id = g.id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("g.id ASC"))
}

// CountMembers counts the members of a group
func (r *PgGroupRepository) CountMembers(ctx context.Context, groupID int64) (int, error) {
	sql, args, err := psql.Select("count(*)").From("group_members").Where(squirrel.Eq{"group_id": groupID}).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	return count, err
}

func (r *PgGroupRepository) countByAssignment(ctx context.Context, table string, assignmentIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return counts, nil
	}

	sql, args, err := psql.Select("assignment_id", "count(*)").From(table).
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

// MemberCountsByAssignment sums group memberships per assignment
func (r *PgGroupRepository) MemberCountsByAssignment(ctx context.Context, assignmentIDs []int64) (map[int64]int, error) {
	return r.countByAssignment(ctx, "group_members", assignmentIDs)
}

// GroupCountsByAssignment counts groups per assignment
func (r *PgGroupRepository) GroupCountsByAssignment(ctx context.Context, assignmentIDs []int64) (map[int64]int, error) {
	return r.countByAssignment(ctx, "assignment_groups", assignmentIDs)
}

// FindMemberGroup returns the user's group in the assignment, or nil
func (r *PgGroupRepository) FindMemberGroup(ctx context.Context, assignmentID, userID int64) (*models.Group, error) {
	sql, args, err := r.selectGroups().
		Join("group_members m ON m.group_id = g.id").
		Where(squirrel.Eq{"m.assignment_id": assignmentID, "m.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	g, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, apperrors.ErrGroupNotFound) {
		return nil, nil
	}
	return g, err
}

// IsMember reports whether the user belongs to the group
func (r *PgGroupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	sql, args, err := psql.Select("1").From("group_members").
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	return exists, err
}

// AddMember inserts a membership row
func (r *PgGroupRepository) AddMember(ctx context.Context, groupID, assignmentID, userID int64) error {
	sql, args, err := psql.Insert("group_members").
		Columns("group_id", "assignment_id", "user_id").
		Values(groupID, assignmentID, userID).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyInGroup
		}
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Int64("groupID", groupID).Int64("userID", userID).Msg("Error adding group member")
		return err
	}
	return nil
}
