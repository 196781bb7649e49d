package dto

import "time"

// GroupResponse represents a group with its current occupancy
type GroupResponse struct {
	ID           int64            `json:"id" example:"4"`
	AssignmentID int64            `json:"assignmentId" example:"10"`
	Name         string           `json:"name" example:"Group 1"`
	MemberCount  int              `json:"memberCount" example:"2"`
	Capacity     int              `json:"capacity" example:"3"`
	IsFull       bool             `json:"isFull"`
	IsMember     bool             `json:"isMember"`
	Members      []MemberResponse `json:"members"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// JoinGroupResponse reports the outcome of a join
type JoinGroupResponse struct {
	GroupID       int64  `json:"groupId" example:"4"`
	AssignmentID  int64  `json:"assignmentId" example:"10"`
	GroupName     string `json:"groupName" example:"Group 1"`
	MemberCount   int    `json:"memberCount" example:"3"`
	Capacity      int    `json:"capacity" example:"3"`
	AlreadyMember bool   `json:"alreadyMember"`
}

// GroupOverviewItem is one row of the owner's groups overview
type GroupOverviewItem struct {
	GroupID     int64            `json:"groupId" example:"4"`
	Name        string           `json:"name" example:"Group 1"`
	MemberCount int              `json:"memberCount" example:"3"`
	Members     []MemberResponse `json:"members"`
	Status      string           `json:"status" example:"Submitted" enums:"Submitted,Pending"`
}

// GroupsOverviewResponse lists every group of an assignment with submission state
type GroupsOverviewResponse struct {
	AssignmentID int64               `json:"assignmentId" example:"10"`
	Title        string              `json:"title"`
	Groups       []GroupOverviewItem `json:"groups"`
}
