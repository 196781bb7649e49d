package models

import "time"

// Submission is a student's single, immutable hand-in for an assignment.
type Submission struct {
	ID             int64     `json:"id" db:"id"`
	AssignmentID   int64     `json:"assignmentId" db:"assignment_id"`
	GroupID        int64     `json:"groupId" db:"group_id"`
	StudentID      int64     `json:"studentId" db:"student_id"`
	FileURL        *string   `json:"fileUrl,omitempty" db:"file_url"`
	SubmissionLink *string   `json:"submissionLink,omitempty" db:"submission_link"`
	SupportingLink *string   `json:"supportingLink,omitempty" db:"supporting_link"`
	SubmittedAt    time.Time `json:"submittedAt" db:"submitted_at"`
}

// Status is the per-user classification of an assignment.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusSubmitted Status = "Submitted"
	StatusOverdue   Status = "Overdue"
)

// DeriveStatus classifies an assignment for a user. The three states are exhaustive.
func DeriveStatus(hasSubmission bool, deadline, now time.Time) Status {
	if hasSubmission {
		return StatusSubmitted
	}
	if now.After(deadline) {
		return StatusOverdue
	}
	return StatusPending
}
