package dto

import (
	"time"

	"github.com/yigit/assigntrack/internal/app/models"
)

// CreateCourseRequest represents a course creation request
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required,max=200" example:"CS101 - Introduction to Programming"`
}

// CourseResponse represents a course
type CourseResponse struct {
	ID         int64     `json:"id" example:"1"`
	Name       string    `json:"name" example:"CS101 - Introduction to Programming"`
	LecturerID int64     `json:"lecturerId" example:"2"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewCourseResponse converts a course model
func NewCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{ID: c.ID, Name: c.Name, LecturerID: c.LecturerID, CreatedAt: c.CreatedAt}
}
