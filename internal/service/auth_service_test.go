package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilamaran/vinavidai/config"
	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
)

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, &config.Config{JWTSecret: "test-secret"}), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(dto.RegisterDTO{Username: "Anbu", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Username != "anbu" {
		t.Fatalf("usernames are stored lowercased, got %q", user.Username)
	}
	if user.Role != string(model.RoleUser) {
		t.Fatalf("self-registration must not grant %q", user.Role)
	}

	token, err := svc.Login(dto.LoginDTO{Username: "anbu", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token.Token == "" || token.UserID != user.ID {
		t.Fatalf("unexpected token response: %+v", token)
	}

	claims, err := svc.ParseToken(token.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterUsernameIsCaseInsensitivelyUnique(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, err := svc.Register(dto.RegisterDTO{Username: "anbu", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(dto.RegisterDTO{Username: "ANBU", Password: "secret2"}); !errors.Is(err, model.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, err := svc.Register(dto.RegisterDTO{Username: "anbu", Password: "short"}); !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	if _, err := svc.Register(dto.RegisterDTO{Username: "anbu", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(dto.LoginDTO{Username: "anbu", Password: "wrong"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	// Unknown users get the same error so the endpoint does not leak which
	// usernames exist.
	if _, err := svc.Login(dto.LoginDTO{Username: "nobody", Password: "secret1"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc, _ := newAuthFixture()
	if _, err := svc.Register(dto.RegisterDTO{Username: "anbu", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := svc.Login(dto.LoginDTO{Username: "anbu", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewAuthService(newFakeUserRepo(), &config.Config{JWTSecret: "different-secret"})
	if _, err := other.ParseToken(token.Token); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("token signed with another secret must be rejected, got %v", err)
	}
	if _, err := svc.ParseToken(token.Token + "x"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("mangled token must be rejected, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthFixture()
	user, err := svc.Register(dto.RegisterDTO{Username: "anbu", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Simulate an admin-provisioned account that must rotate its credential.
	stored, _ := repo.FindByID(user.ID)
	stored.MustChangePassword = true
	repo.Update(stored)

	if err := svc.ChangePassword(user.ID, dto.ChangePasswordDTO{OldPassword: "wrong", NewPassword: "secret2"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, dto.ChangePasswordDTO{OldPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	updated, _ := repo.FindByID(user.ID)
	if updated.MustChangePassword {
		t.Fatalf("changing the password must clear the rotation flag")
	}
	if _, err := svc.Login(dto.LoginDTO{Username: "anbu", Password: "secret1"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.Login(dto.LoginDTO{Username: "anbu", Password: "secret2"}); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
}

func TestCreateUserWithGeneratedCredential(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	resp, err := svc.CreateUser(dto.UserCreateDTO{Username: "Bala", Role: "admin"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if resp.Password == "" {
		t.Fatalf("generated credential must be returned once")
	}
	if !resp.User.MustChangePassword {
		t.Fatalf("a generated credential must force a password change")
	}
	if resp.User.Username != "bala" || resp.User.Role != string(model.RoleAdmin) {
		t.Fatalf("unexpected user: %+v", resp.User)
	}

	stored, _ := repo.FindByID(resp.User.ID)
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(resp.Password)); err != nil {
		t.Fatalf("stored hash does not match the returned credential: %v", err)
	}
}

func TestCreateUserWithExplicitPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	resp, err := svc.CreateUser(dto.UserCreateDTO{Username: "bala", Password: "secret1"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if resp.Password != "" {
		t.Fatalf("an admin-chosen password must never be echoed back")
	}
	if resp.User.MustChangePassword {
		t.Fatalf("explicit passwords do not force a change")
	}
}

func TestResetPasswordRotatesCredential(t *testing.T) {
	repo := newFakeUserRepo()
	users := NewUserService(repo)
	auth := NewAuthService(repo, &config.Config{JWTSecret: "test-secret"})

	created, err := users.CreateUser(dto.UserCreateDTO{Username: "bala", Password: "secret1"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	resp, err := users.ResetPassword(created.User.ID)
	if err != nil {
		t.Fatalf("reset password failed: %v", err)
	}
	if resp.Password == "" {
		t.Fatalf("reset must return the new credential")
	}
	if !resp.User.MustChangePassword {
		t.Fatalf("reset must force a password change")
	}
	if _, err := auth.Login(dto.LoginDTO{Username: "bala", Password: "secret1"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working after a reset, got %v", err)
	}
	if _, err := auth.Login(dto.LoginDTO{Username: "bala", Password: resp.Password}); err != nil {
		t.Fatalf("generated credential must work: %v", err)
	}
}

func TestResetPasswordUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	if _, err := svc.ResetPassword(uuid.New()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
