package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	pkgauth "github.com/yigit/assigntrack/internal/pkg/auth"
	"github.com/yigit/assigntrack/internal/pkg/logger"
	"github.com/yigit/assigntrack/internal/pkg/validation"
)

// AuthService defines registration and login
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, p models.Principal) (*dto.UserResponse, error)
}

type authServiceImpl struct {
	store      repositories.Store
	jwtService *pkgauth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(store repositories.Store, jwtService *pkgauth.JWTService) AuthService {
	return &authServiceImpl{store: store, jwtService: jwtService}
}

// Register creates an account and returns a token for it. The role defaults to student.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if !validation.ValidateUsername(username) {
		return nil, apperrors.NewValidationError("username may contain letters, digits and @ . + - _ only")
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	role := models.RoleStudent
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			return nil, apperrors.ErrInvalidRole
		}
		role = parsed
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Username:  username,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
		IsActive:  true,
	}
	if _, err := s.store.Users().CreateUser(ctx, user); err != nil {
		if apperrors.Kind(err) == nil {
			logger.Error().Err(err).Str("username", username).Msg("Error creating user")
		}
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User registered")
	return s.authResponse(user)
}

// Login authenticates by email or username
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.Users().GetUserByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			pkgauth.BurnPasswordCheck(req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		logger.Debug().Int64("userID", user.ID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.authResponse(user)
}

// Me returns the caller's profile
func (s *authServiceImpl) Me(ctx context.Context, p models.Principal) (*dto.UserResponse, error) {
	user, err := s.store.Users().GetUserByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *authServiceImpl) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.NewUserResponse(user),
	}, nil
}
