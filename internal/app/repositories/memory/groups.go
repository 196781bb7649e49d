package memory

import (
	"context"
	"sort"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
)

type groupRepo struct{ s *Store }

func (r *groupRepo) insert(st *state, group *models.Group) error {
	for _, g := range st.groups {
		if g.AssignmentID == group.AssignmentID && g.Name == group.Name {
			return apperrors.NewCustomError(apperrors.ErrDuplicate, "a group with this name already exists")
		}
	}
	group.ID = st.nextID("groups")
	group.CreatedAt = r.s.now()
	st.groups[group.ID] = *group
	return nil
}

func (r *groupRepo) CreateGroup(_ context.Context, group *models.Group) (int64, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.assignments[group.AssignmentID]; !ok {
		return 0, apperrors.ErrAssignmentNotFound
	}
	if err := r.insert(st, group); err != nil {
		return 0, err
	}
	return group.ID, nil
}

func (r *groupRepo) GetGroupByID(_ context.Context, id int64) (*models.Group, error) {
	defer r.s.lock()()
	g, ok := r.s.data().groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	return &g, nil
}

// LockGroup is GetGroupByID: the transaction mutex already excludes other writers.
func (r *groupRepo) LockGroup(ctx context.Context, id int64) (*models.Group, error) {
	return r.GetGroupByID(ctx, id)
}

func (r *groupRepo) GetOrCreateGroup(_ context.Context, assignmentID int64, name string) (*models.Group, error) {
	defer r.s.lock()()
	st := r.s.data()
	for _, g := range st.groups {
		if g.AssignmentID == assignmentID && g.Name == name {
			return &g, nil
		}
	}
	if _, ok := st.assignments[assignmentID]; !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	group := &models.Group{AssignmentID: assignmentID, Name: name}
	if err := r.insert(st, group); err != nil {
		return nil, err
	}
	return group, nil
}

func sortGroups(groups []*models.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
}

func (r *groupRepo) ListGroupsByAssignment(_ context.Context, assignmentID int64) ([]*models.GroupWithMembers, error) {
	defer r.s.lock()()
	st := r.s.data()

	var groups []*models.Group
	for _, g := range st.groups {
		if g.AssignmentID == assignmentID {
			g := g
			groups = append(groups, &g)
		}
	}
	sortGroups(groups)

	result := make([]*models.GroupWithMembers, 0, len(groups))
	for _, g := range groups {
		ids := []int64{}
		for _, m := range st.members {
			if m.GroupID == g.ID {
				ids = append(ids, m.UserID)
			}
		}
		result = append(result, &models.GroupWithMembers{Group: *g, MemberIDs: ids})
	}
	return result, nil
}

func (r *groupRepo) ListGroupsByMember(_ context.Context, userID int64) ([]*models.Group, error) {
	defer r.s.lock()()
	st := r.s.data()
	groups := []*models.Group{}
	for _, m := range st.members {
		if m.UserID == userID {
			g := st.groups[m.GroupID]
			groups = append(groups, &g)
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (r *groupRepo) CountMembers(_ context.Context, groupID int64) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, m := range r.s.data().members {
		if m.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r *groupRepo) MemberCountsByAssignment(_ context.Context, assignmentIDs []int64) (map[int64]int, error) {
	defer r.s.lock()()
	counts := make(map[int64]int, len(assignmentIDs))
	wanted := idSet(assignmentIDs)
	for _, m := range r.s.data().members {
		if wanted[m.AssignmentID] {
			counts[m.AssignmentID]++
		}
	}
	return counts, nil
}

func (r *groupRepo) GroupCountsByAssignment(_ context.Context, assignmentIDs []int64) (map[int64]int, error) {
	defer r.s.lock()()
	counts := make(map[int64]int, len(assignmentIDs))
	wanted := idSet(assignmentIDs)
	for _, g := range r.s.data().groups {
		if wanted[g.AssignmentID] {
			counts[g.AssignmentID]++
		}
	}
	return counts, nil
}

func (r *groupRepo) FindMemberGroup(_ context.Context, assignmentID, userID int64) (*models.Group, error) {
	defer r.s.lock()()
	st := r.s.data()
	for _, m := range st.members {
		if m.AssignmentID == assignmentID && m.UserID == userID {
			g := st.groups[m.GroupID]
			return &g, nil
		}
	}
	return nil, nil
}

func (r *groupRepo) IsMember(_ context.Context, groupID, userID int64) (bool, error) {
	defer r.s.lock()()
	for _, m := range r.s.data().members {
		if m.GroupID == groupID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *groupRepo) AddMember(_ context.Context, groupID, assignmentID, userID int64) error {
	defer r.s.lock()()
	st := r.s.data()
	if g, ok := st.groups[groupID]; !ok || g.AssignmentID != assignmentID {
		return apperrors.ErrGroupNotFound
	}
	for _, m := range st.members {
		if m.AssignmentID == assignmentID && m.UserID == userID {
			return apperrors.ErrAlreadyInGroup
		}
	}
	st.members = append(st.members, models.GroupMember{
		GroupID:      groupID,
		AssignmentID: assignmentID,
		UserID:       userID,
		JoinedAt:     r.s.now(),
	})
	return nil
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
