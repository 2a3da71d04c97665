package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
	"go-branchpos-ws/internal/ws"
	"go-branchpos-ws/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
)

// inactivityLimit is how long a session survives without a heartbeat.
const inactivityLimit = 5 * time.Minute

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User  model.UserResponse `json:"user"`
	Actor model.Actor        `json:"actor"`
}

type authService struct {
	userRepo repository.UserRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		wsHub:    hub,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a fresh token version invalidates any older token.
	newTokenVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newTokenVersion
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user, newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}
	if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > inactivityLimit {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:  user.ToResponse(),
		Actor: user.Actor(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	// Broadcast presence so newly connected clients see who is online.
	go func() {
		payload := map[string]interface{}{
			"type":         "user_status_update",
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": time.Now(),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}
