package models

import "time"

// Course groups assignments under a lecturer-owned course.
type Course struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	LecturerID int64     `json:"lecturerId" db:"lecturer_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
