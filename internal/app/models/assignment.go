package models

import (
	"strings"
	"time"
)

// GroupPolicy is the per-assignment strategy for partitioning students.
type GroupPolicy string

const (
	GroupPolicyIndividual GroupPolicy = "individual"
	GroupPolicyManual     GroupPolicy = "manual"
	GroupPolicyAutomatic  GroupPolicy = "automatic"
)

// ParseGroupPolicy normalizes raw input. An empty value means individual.
func ParseGroupPolicy(raw string) (GroupPolicy, bool) {
	policy := GroupPolicy(strings.ToLower(strings.TrimSpace(raw)))
	if policy == "" {
		return GroupPolicyIndividual, true
	}
	return policy, policy.Valid()
}

// Valid reports whether p is a known policy.
func (p GroupPolicy) Valid() bool {
	switch p {
	case GroupPolicyIndividual, GroupPolicyManual, GroupPolicyAutomatic:
		return true
	}
	return false
}

// UsesGroups reports whether students are partitioned into shared groups.
func (p GroupPolicy) UsesGroups() bool {
	return p == GroupPolicyManual || p == GroupPolicyAutomatic
}

// Assignment is a lecturer-owned piece of coursework.
type Assignment struct {
	ID            int64       `json:"id" db:"id"`
	AuthorID      int64       `json:"authorId" db:"author_id"`
	CourseID      *int64      `json:"courseId,omitempty" db:"course_id"`
	Title         string      `json:"title" db:"title"`
	Content       string      `json:"content" db:"content"`
	Deadline      time.Time   `json:"deadline" db:"deadline"`
	AttachmentURL *string     `json:"attachmentUrl,omitempty" db:"attachment_url"`
	GroupPolicy   GroupPolicy `json:"groupPolicy" db:"group_policy"`
	MaxGroupSize  *int        `json:"maxGroupSize,omitempty" db:"max_group_size"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
}

// GroupCapacity returns the configured group size, or 0 when unset.
func (a *Assignment) GroupCapacity() int {
	if a.MaxGroupSize == nil || *a.MaxGroupSize <= 0 {
		return 0
	}
	return *a.MaxGroupSize
}

// DeadlinePassed reports whether now is strictly after the deadline.
// A request arriving exactly at the deadline instant is still on time.
func (a *Assignment) DeadlinePassed(now time.Time) bool {
	return now.After(a.Deadline)
}

// IsOwnedBy reports whether the given user authored the assignment.
func (a *Assignment) IsOwnedBy(userID int64) bool {
	return a.AuthorID == userID
}
