package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/000000-cmd/SaasBack/internal/auth/dto"
)

func newTestUserService(t *testing.T) (UserService, *mockUserRepository, *mockRefreshTokenRepository) {
	t.Helper()
	userRepo := newMockUserRepository()
	tokenRepo := newMockRefreshTokenRepository()
	refreshSvc := NewRefreshTokenService(tokenRepo, time.Hour)
	return NewUserService(userRepo, refreshSvc, bcrypt.MinCost, nil), userRepo, tokenRepo
}

func TestUserService_Create(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	t.Run("creates an enabled user with the default role", func(t *testing.T) {
		user, err := svc.Create(context.Background(), &dto.CreateUserRequest{
			Username:    "alice",
			Email:       "alice@example.com",
			Password:    "Password1!",
			DisplayName: "Alice",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if !user.Enabled {
			t.Error("Create() user is disabled")
		}
		if !user.HasRole(DefaultRole) {
			t.Errorf("Create() roles = %v, want %q", user.RoleCodes, DefaultRole)
		}
		if user.PasswordHash == "Password1!" {
			t.Error("Create() stored the password in clear")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Password1!")); err != nil {
			t.Error("Create() stored a hash that does not match the password")
		}
	})

	t.Run("duplicate identifier is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
			Username:    "alice",
			Email:       "other@example.com",
			Password:    "Password1!",
			DisplayName: "Alice Again",
		})
		if !errors.Is(err, ErrUserAlreadyExists) {
			t.Errorf("Create() error = %v, want ErrUserAlreadyExists", err)
		}
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, userRepo, tokenRepo := newTestUserService(t)
	user := seedUser(t, userRepo, "carol", "carol@example.com", "OldPassword1!", true, "USER")

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
			CurrentPassword: "nope",
			NewPassword:     "NewPassword1!",
		})
		if !errors.Is(err, ErrWrongPassword) {
			t.Errorf("ChangePassword() error = %v, want ErrWrongPassword", err)
		}
	})

	t.Run("change revokes the active session", func(t *testing.T) {
		refreshSvc := NewRefreshTokenService(tokenRepo, time.Hour)
		session, err := refreshSvc.Create(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		err = svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
			CurrentPassword: "OldPassword1!",
			NewPassword:     "NewPassword1!",
		})
		if err != nil {
			t.Fatalf("ChangePassword() error = %v", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("NewPassword1!")); err != nil {
			t.Error("ChangePassword() did not store the new password")
		}
		if got, _ := tokenRepo.GetByToken(context.Background(), session.Token); got != nil {
			t.Error("ChangePassword() left the session alive")
		}
	})
}

func TestUserService_SetEnabled(t *testing.T) {
	svc, userRepo, tokenRepo := newTestUserService(t)
	user := seedUser(t, userRepo, "dave", "dave@example.com", "Password1!", true, "USER")

	refreshSvc := NewRefreshTokenService(tokenRepo, time.Hour)
	session, err := refreshSvc.Create(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.SetEnabled(context.Background(), user.ID, false)
	if err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	if updated.Enabled {
		t.Error("SetEnabled(false) left the account enabled")
	}
	if got, _ := tokenRepo.GetByToken(context.Background(), session.Token); got != nil {
		t.Error("SetEnabled(false) left the session alive")
	}
}

func TestUserService_AssignRoles(t *testing.T) {
	svc, userRepo, _ := newTestUserService(t)
	user := seedUser(t, userRepo, "erin", "erin@example.com", "Password1!", true, "USER")

	updated, err := svc.AssignRoles(context.Background(), user.ID, &dto.AssignRolesRequest{
		Roles: []string{"ADMIN"},
	})
	if err != nil {
		t.Fatalf("AssignRoles() error = %v", err)
	}
	if !updated.HasRole("ADMIN") || updated.HasRole("USER") {
		t.Errorf("AssignRoles() roles = %v, want exactly [ADMIN]", updated.RoleCodes)
	}
}

func TestUserService_GetByID(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
}
