package service

import (
	"github.com/google/uuid"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
	"go-branchpos-ws/pkg/validator"
)

// CreateStaffRequest is the admin payload for adding a staff account.
type CreateStaffRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required,min=8"`
	Role     model.Role `json:"role" validate:"required,oneof=admin staf-gudang staf-kasir"`
}

type UserService interface {
	CreateStaff(actor model.Actor, req *CreateStaffRequest) (*model.UserResponse, error)
	GetStaff(actor model.Actor) ([]model.UserResponse, error)
	GetStaffByID(actor model.Actor, id uuid.UUID) (*model.UserResponse, error)
	SetActive(actor model.Actor, id uuid.UUID, active bool) error
	DeleteStaff(actor model.Actor, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateStaff(actor model.Actor, req *CreateStaffRequest) (*model.UserResponse, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.ErrUnauthorized
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field %s failed on rule %s", first.FailedField, first.Tag)
	}
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apperr.Validationf("email already registered")
	}

	user := &model.User{
		Email:    req.Email,
		Username: req.Username,
		Role:     req.Role,
		BranchID: actor.BranchID, // Staff always join the admin's branch
		IsActive: true,
	}
	user.CreatedBy = actor.UserID.String()
	user.UpdatedBy = actor.UserID.String()
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetStaff(actor model.Actor) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindByBranch(actor.BranchID)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

func (s *userService) GetStaffByID(actor model.Actor, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user.BranchID != actor.BranchID {
		return nil, apperr.ErrNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) SetActive(actor model.Actor, id uuid.UUID, active bool) error {
	if actor.Role != model.RoleAdmin {
		return apperr.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return err
	}
	if user.BranchID != actor.BranchID {
		return apperr.ErrNotFound
	}
	user.IsActive = active
	user.UpdatedBy = actor.UserID.String()
	return s.userRepo.Update(user)
}

func (s *userService) DeleteStaff(actor model.Actor, id uuid.UUID) error {
	if actor.Role != model.RoleAdmin {
		return apperr.ErrUnauthorized
	}
	if id == actor.UserID {
		return apperr.Validationf("cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return err
	}
	if user.BranchID != actor.BranchID {
		return apperr.ErrNotFound
	}
	return s.userRepo.Delete(id)
}
