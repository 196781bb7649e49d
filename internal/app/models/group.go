package models

import (
	"fmt"
	"time"
)

// Group belongs to exactly one assignment and holds a set of members.
type Group struct {
	ID           int64     `json:"id" db:"id"`
	AssignmentID int64     `json:"assignmentId" db:"assignment_id"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// GroupMember is one row of the membership relation.
type GroupMember struct {
	GroupID      int64     `json:"groupId" db:"group_id"`
	AssignmentID int64     `json:"assignmentId" db:"assignment_id"`
	UserID       int64     `json:"userId" db:"user_id"`
	JoinedAt     time.Time `json:"joinedAt" db:"joined_at"`
}

// GroupWithMembers is a group together with its member IDs in join order.
type GroupWithMembers struct {
	Group
	MemberIDs []int64 `json:"memberIds"`
}

// MemberCount returns the number of members.
func (g GroupWithMembers) MemberCount() int {
	return len(g.MemberIDs)
}

// HasMember reports whether userID is a member.
func (g GroupWithMembers) HasMember(userID int64) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SequentialGroupName names the i-th (1-based) bulk-created group.
func SequentialGroupName(i int) string {
	return fmt.Sprintf("Group %d", i)
}
