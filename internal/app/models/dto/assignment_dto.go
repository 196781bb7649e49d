package dto

import (
	"time"

	"github.com/yigit/assigntrack/internal/app/models"
)

// CreateAssignmentRequest represents an assignment creation request.
// MaxGroupSize is required for manual and automatic policies.
type CreateAssignmentRequest struct {
	Title        string    `json:"title" binding:"required,max=200" example:"Linked lists"`
	Content      string    `json:"content" binding:"required" example:"Implement a doubly linked list."`
	Deadline     time.Time `json:"deadline" binding:"required" example:"2025-06-01T23:59:00Z"`
	CourseID     *int64    `json:"courseId" binding:"omitempty,min=1" example:"1"`
	GroupPolicy  string    `json:"groupPolicy" binding:"omitempty,oneof=individual manual automatic" example:"manual" enums:"individual,manual,automatic"`
	MaxGroupSize *int      `json:"maxGroupSize" example:"3"`
}

// UpdateAssignmentRequest represents a partial assignment update.
// GroupPolicy may be sent but must equal the current policy.
type UpdateAssignmentRequest struct {
	Title        *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Content      *string    `json:"content" binding:"omitempty,min=1"`
	Deadline     *time.Time `json:"deadline"`
	CourseID     *int64     `json:"courseId" binding:"omitempty,min=1"`
	GroupPolicy  *string    `json:"groupPolicy" binding:"omitempty,oneof=individual manual automatic"`
	MaxGroupSize *int       `json:"maxGroupSize"`
}

// AssignmentResponse represents an assignment
type AssignmentResponse struct {
	ID            int64              `json:"id" example:"10"`
	AuthorID      int64              `json:"authorId" example:"2"`
	CourseID      *int64             `json:"courseId,omitempty" example:"1"`
	Title         string             `json:"title" example:"Linked lists"`
	Content       string             `json:"content"`
	Deadline      time.Time          `json:"deadline"`
	AttachmentURL *string            `json:"attachmentUrl,omitempty"`
	GroupPolicy   models.GroupPolicy `json:"groupPolicy" example:"manual"`
	MaxGroupSize  *int               `json:"maxGroupSize,omitempty" example:"3"`
	CreatedAt     time.Time          `json:"createdAt"`
	GroupsCreated int                `json:"groupsCreated,omitempty" example:"4"`
}

// AssignmentListResponse is one page of assignments
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// NewAssignmentResponse converts an assignment model
func NewAssignmentResponse(a *models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:            a.ID,
		AuthorID:      a.AuthorID,
		CourseID:      a.CourseID,
		Title:         a.Title,
		Content:       a.Content,
		Deadline:      a.Deadline,
		AttachmentURL: a.AttachmentURL,
		GroupPolicy:   a.GroupPolicy,
		MaxGroupSize:  a.MaxGroupSize,
		CreatedAt:     a.CreatedAt,
	}
}

// AssignmentFilter holds the listing query parameters
type AssignmentFilter struct {
	CourseID *int64 `form:"courseId" binding:"omitempty,min=1"`
	Mine     bool   `form:"mine"`
	Page     int    `form:"page"`
	Size     int    `form:"size"`
}
