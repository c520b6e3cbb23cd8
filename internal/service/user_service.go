package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

// UserService covers admin-side account management.
type UserService interface {
	ListUsers() ([]dto.UserResponseDTO, error)
	CreateUser(req dto.UserCreateDTO) (*dto.CredentialResponseDTO, error)
	DeleteUser(id uuid.UUID) error
	// ResetPassword replaces the user's credential with a generated one and
	// forces a change on next login. The new credential is returned once.
	ResetPassword(id uuid.UUID) (*dto.CredentialResponseDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers() ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	out := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		out = append(out, *userDTO(&users[i]))
	}
	return out, nil
}

func (s *userService) CreateUser(req dto.UserCreateDTO) (*dto.CredentialResponseDTO, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, model.NewValidationError("username must not be empty")
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, model.ErrUsernameTaken
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	password := req.Password
	generated := password == ""
	if generated {
		var err error
		if password, err = generateCredential(); err != nil {
			return nil, err
		}
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if req.Role == string(model.RoleAdmin) {
		role = model.RoleAdmin
	}
	user := model.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		MustChangePassword: generated,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to create user")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	resp := &dto.CredentialResponseDTO{User: *userDTO(&user)}
	if generated {
		resp.Password = password
	}
	return resp, nil
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	return s.userRepo.Delete(id)
}

func (s *userService) ResetPassword(id uuid.UUID) (*dto.CredentialResponseDTO, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	password, err := generateCredential()
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.MustChangePassword = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("database error resetting password: %w", err)
	}
	log.Info().Str("userID", id.String()).Msg("Password reset by admin")
	return &dto.CredentialResponseDTO{User: *userDTO(user), Password: password}, nil
}
