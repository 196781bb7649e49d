package dto

import (
	"time"

	"github.com/yigit/assigntrack/internal/app/models"
)

// AssignmentCard is one assignment line of a dashboard
type AssignmentCard struct {
	AssignmentID int64              `json:"assignmentId" example:"10"`
	Title        string             `json:"title" example:"Linked lists"`
	CourseID     *int64             `json:"courseId,omitempty"`
	Deadline     time.Time          `json:"deadline"`
	GroupPolicy  models.GroupPolicy `json:"groupPolicy" example:"manual"`
	Status       models.Status      `json:"status" example:"Pending"`
	GroupNames   string             `json:"groupNames" example:"Group 1"`
	Progress     string             `json:"progress" example:"2/5"`
	IsOverdue    bool               `json:"isOverdue"`
}

// JoinedGroup is a group the student belongs to
type JoinedGroup struct {
	GroupID      int64  `json:"groupId" example:"4"`
	AssignmentID int64  `json:"assignmentId" example:"10"`
	Name         string `json:"name" example:"Group 1"`
}

// StudentDashboardResponse is the student's dashboard
type StudentDashboardResponse struct {
	Cards         []AssignmentCard `json:"cards"`
	Upcoming      []AssignmentCard `json:"upcoming"`
	Overdue       []AssignmentCard `json:"overdue"`
	Notifications []string         `json:"notifications"`
	Groups        []JoinedGroup    `json:"groups"`
}

// InstructorAssignmentItem summarizes one of the lecturer's assignments
type InstructorAssignmentItem struct {
	AssignmentCard
	GroupCount      int `json:"groupCount" example:"4"`
	MemberTotal     int `json:"memberTotal" example:"11"`
	SubmissionCount int `json:"submissionCount" example:"3"`
}

// InstructorDashboardResponse is the lecturer's dashboard
type InstructorDashboardResponse struct {
	Assignments []InstructorAssignmentItem `json:"assignments"`
}
