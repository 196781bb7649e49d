package services

import (
	"context"
	"fmt"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
)

// PlannedGroup is one group of an allocation plan
type PlannedGroup struct {
	Name      string
	MemberIDs []int64
}

// PlanGroups partitions a roster (ordered by user ID) for a new assignment.
//
// It creates ceil(n/maxGroupSize) groups named "Group 1".."Group k". Under the automatic
// policy students are placed in roster order, filling each group before moving on; any
// student left once the groups are exhausted stays unassigned. Under the manual policy
// the groups start empty. Individual policy, an empty roster or a non-positive size
// yield no groups.
func PlanGroups(policy models.GroupPolicy, maxGroupSize int, roster []int64) []PlannedGroup {
	if !policy.UsesGroups() || maxGroupSize <= 0 || len(roster) == 0 {
		return nil
	}

	count := (len(roster) + maxGroupSize - 1) / maxGroupSize
	groups := make([]PlannedGroup, count)
	for i := range groups {
		groups[i] = PlannedGroup{Name: models.SequentialGroupName(i + 1), MemberIDs: []int64{}}
	}

	if policy != models.GroupPolicyAutomatic {
		return groups
	}

	g := 0
	for _, studentID := range roster {
		if len(groups[g].MemberIDs) >= maxGroupSize {
			g++
		}
		if g >= len(groups) {
			break
		}
		groups[g].MemberIDs = append(groups[g].MemberIDs, studentID)
	}
	return groups
}

// allocateGroups plans and persists the groups of a freshly created assignment using
// the repositories of the surrounding transaction. It returns the number of groups created.
func allocateGroups(ctx context.Context, tx repositories.Store, assignment *models.Assignment) (int, error) {
	if !assignment.GroupPolicy.UsesGroups() || assignment.GroupCapacity() == 0 {
		return 0, nil
	}

	students, err := tx.Users().ListActiveStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading roster: %w", err)
	}
	roster := make([]int64, 0, len(students))
	for _, s := range students {
		roster = append(roster, s.ID)
	}

	plan := PlanGroups(assignment.GroupPolicy, assignment.GroupCapacity(), roster)
	for _, planned := range plan {
		group := &models.Group{AssignmentID: assignment.ID, Name: planned.Name}
		if _, err := tx.Groups().CreateGroup(ctx, group); err != nil {
			return 0, fmt.Errorf("error creating %s: %w", planned.Name, err)
		}
		for _, studentID := range planned.MemberIDs {
			if err := tx.Groups().AddMember(ctx, group.ID, assignment.ID, studentID); err != nil {
				return 0, fmt.Errorf("error adding student %d to %s: %w", studentID, planned.Name, err)
			}
		}
	}
	return len(plan), nil
}
