package dto

import (
	"time"

	"github.com/yigit/assigntrack/internal/app/models"
)

// RegisterRequest represents a user registration request. Role defaults to student.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"ada@uni.edu"`
	Username  string `json:"username" binding:"required,username" example:"ada"`
	Password  string `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FirstName string `json:"firstName" binding:"max=100" example:"Ada"`
	LastName  string `json:"lastName" binding:"max=100" example:"Lovelace"`
	Role      string `json:"role" binding:"omitempty,oneof=student lecturer" example:"student" enums:"student,lecturer"`
}

// LoginRequest represents login credentials. Login accepts an email or a username.
type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"ada"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64       `json:"id" example:"1"`
	Email     string      `json:"email" example:"ada@uni.edu"`
	Username  string      `json:"username" example:"ada"`
	FirstName string      `json:"firstName" example:"Ada"`
	LastName  string      `json:"lastName" example:"Lovelace"`
	Role      models.Role `json:"role" example:"student"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse converts a user model
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// MemberResponse is the public view of a group member or roster student
type MemberResponse struct {
	ID        int64  `json:"id" example:"7"`
	Username  string `json:"username" example:"ada"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// NewMemberResponse converts a user model
func NewMemberResponse(u *models.User) MemberResponse {
	return MemberResponse{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}
