package dto

import (
	"time"

	"github.com/yigit/assigntrack/internal/app/models"
)

// SubmitRequest holds the form fields of a submission. The file travels as the "file" form part.
type SubmitRequest struct {
	Link           string `form:"link" json:"link" example:"https://github.com/ada/linked-lists"`
	SupportingLink string `form:"supportingLink" json:"supportingLink"`
	GroupID        *int64 `form:"groupId" json:"groupId" example:"4"`
}

// SubmissionResponse represents a stored submission
type SubmissionResponse struct {
	ID             int64     `json:"id" example:"31"`
	AssignmentID   int64     `json:"assignmentId" example:"10"`
	GroupID        int64     `json:"groupId" example:"4"`
	StudentID      int64     `json:"studentId" example:"7"`
	FileURL        *string   `json:"fileUrl,omitempty"`
	SubmissionLink *string   `json:"submissionLink,omitempty"`
	SupportingLink *string   `json:"supportingLink,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// NewSubmissionResponse converts a submission model
func NewSubmissionResponse(s *models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:             s.ID,
		AssignmentID:   s.AssignmentID,
		GroupID:        s.GroupID,
		StudentID:      s.StudentID,
		FileURL:        s.FileURL,
		SubmissionLink: s.SubmissionLink,
		SupportingLink: s.SupportingLink,
		SubmittedAt:    s.SubmittedAt,
	}
}

// StatusResponse is the caller's status for one assignment
type StatusResponse struct {
	AssignmentID int64               `json:"assignmentId" example:"10"`
	Status       models.Status       `json:"status" example:"Pending" enums:"Pending,Submitted,Overdue"`
	Deadline     time.Time           `json:"deadline"`
	Submission   *SubmissionResponse `json:"submission,omitempty"`
}

// ReviewStudent is one roster line of an individual assignment review
type ReviewStudent struct {
	Student    MemberResponse      `json:"student"`
	Submitted  bool                `json:"submitted"`
	Submission *SubmissionResponse `json:"submission,omitempty"`
}

// ReviewGroup is one group line of a group assignment review
type ReviewGroup struct {
	GroupID     int64                `json:"groupId" example:"4"`
	Name        string               `json:"name" example:"Group 1"`
	Members     []MemberResponse     `json:"members"`
	Submitted   bool                 `json:"submitted"`
	Submissions []SubmissionResponse `json:"submissions"`
}

// ReviewResponse is the owner's review of an assignment
type ReviewResponse struct {
	AssignmentID int64              `json:"assignmentId" example:"10"`
	Title        string             `json:"title"`
	GroupPolicy  models.GroupPolicy `json:"groupPolicy"`
	Students     []ReviewStudent    `json:"students,omitempty"`
	Groups       []ReviewGroup      `json:"groups,omitempty"`
}
