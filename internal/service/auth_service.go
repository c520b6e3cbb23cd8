package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilamaran/vinavidai/config"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error)
	Login(req dto.LoginDTO) (*dto.TokenResponseDTO, error)
	ChangePassword(userID uuid.UUID, req dto.ChangePasswordDTO) error
	ParseToken(token string) (*Claims, error)
}

// Claims is the JWT payload attached to each authenticated request.
type Claims struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, secret: []byte(cfg.JWTSecret), now: time.Now}
}

func (s *authService) Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, model.NewValidationError("username must not be empty")
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, model.ErrUsernameTaken
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to create user")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	return userDTO(&user), nil
}

func (s *authService) Login(req dto.LoginDTO) (*dto.TokenResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, model.ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}
	return &dto.TokenResponseDTO{
		Token:              token,
		UserID:             user.ID,
		Username:           user.Username,
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, req dto.ChangePasswordDTO) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return model.ErrInvalidCredentials
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.MustChangePassword = false
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("database error updating password: %w", err)
	}
	return nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrInvalidCredentials
	}
	return claims, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", model.NewValidationError("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// generateCredential returns a random hex password for admin-created accounts
// and password resets.
func generateCredential() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("error generating credential: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func userDTO(user *model.User) *dto.UserResponseDTO {
	return &dto.UserResponseDTO{
		ID:                 user.ID,
		Username:           user.Username,
		Role:               string(user.Role),
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
	}
}
