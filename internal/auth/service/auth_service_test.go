package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/000000-cmd/SaasBack/internal/auth/domain"
	"github.com/000000-cmd/SaasBack/internal/auth/dto"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users       map[string]*domain.User
	createError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	r.users[user.ID] = user
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.users[id], nil
}

func (r *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *mockUserRepository) ReplaceRoles(ctx context.Context, userID string, roleCodes []string) error {
	if u := r.users[userID]; u != nil {
		u.RoleCodes = roleCodes
	}
	return nil
}

func (r *mockUserRepository) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// mockRefreshTokenRepository is a mock implementation of RefreshTokenRepository
type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken // keyed by token value
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *mockRefreshTokenRepository) Replace(ctx context.Context, token *domain.RefreshToken) error {
	for value, t := range r.tokens {
		if t.UserID == token.UserID {
			delete(r.tokens, value)
		}
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *mockRefreshTokenRepository) GetByToken(ctx context.Context, tokenValue string) (*domain.RefreshToken, error) {
	return r.tokens[tokenValue], nil
}

func (r *mockRefreshTokenRepository) DeleteByToken(ctx context.Context, tokenValue string) error {
	delete(r.tokens, tokenValue)
	return nil
}

func (r *mockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for value, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, value)
		}
	}
	return nil
}

func (r *mockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for value, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, value)
			n++
		}
	}
	return n, nil
}

const testSecret = "unit-test-signing-secret-0123456789abcdef"

func newTestAuthService(t *testing.T) (AuthService, *mockUserRepository, *mockRefreshTokenRepository) {
	t.Helper()

	userRepo := newMockUserRepository()
	tokenRepo := newMockRefreshTokenRepository()
	codec, err := token.NewProvider(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	refreshSvc := NewRefreshTokenService(tokenRepo, 7*24*time.Hour)
	return NewAuthService(userRepo, refreshSvc, codec, nil), userRepo, tokenRepo
}

func seedUser(t *testing.T, repo *mockUserRepository, username, email, password string, enabled bool, roles ...string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           "user-" + username,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Test " + username,
		Enabled:      enabled,
		RoleCodes:    roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	repo.users[user.ID] = user
	return user
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo, tokenRepo := newTestAuthService(t)
	user := seedUser(t, userRepo, "alice", "alice@example.com", "Password1!", true, "USER")

	t.Run("login with username", func(t *testing.T) {
		resp, refresh, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "alice",
			Password:        "Password1!",
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("Login() AccessToken is empty")
		}
		if resp.ID != user.ID {
			t.Errorf("Login() ID = %v, want %v", resp.ID, user.ID)
		}
		if refresh == nil || refresh.Token == "" {
			t.Fatal("Login() refresh token is empty")
		}
		if refresh.UserID != user.ID {
			t.Errorf("Login() refresh token user = %v, want %v", refresh.UserID, user.ID)
		}
	})

	t.Run("login with email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "alice@example.com",
			Password:        "Password1!",
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
	})

	t.Run("second login replaces the first session", func(t *testing.T) {
		_, first, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "alice",
			Password:        "Password1!",
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		_, second, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "alice",
			Password:        "Password1!",
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		if first.Token == second.Token {
			t.Error("Login() reused the refresh token value")
		}
		if got, _ := tokenRepo.GetByToken(context.Background(), first.Token); got != nil {
			t.Error("Login() left the previous session alive")
		}

		count := 0
		for _, tok := range tokenRepo.tokens {
			if tok.UserID == user.ID {
				count++
			}
		}
		if count != 1 {
			t.Errorf("Login() left %d sessions for user, want 1", count)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "nobody",
			Password:        "Password1!",
		}, "127.0.0.1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "alice",
			Password:        "wrong",
		}, "127.0.0.1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("disabled account is indistinguishable from bad password", func(t *testing.T) {
		seedUser(t, userRepo, "bob", "bob@example.com", "Password1!", false, "USER")

		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "bob",
			Password:        "Password1!",
		}, "127.0.0.1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthService_Refresh(t *testing.T) {
	svc, userRepo, tokenRepo := newTestAuthService(t)
	user := seedUser(t, userRepo, "carol", "carol@example.com", "Password1!", true, "USER")

	login := func(t *testing.T) *domain.RefreshToken {
		t.Helper()
		_, refresh, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "carol",
			Password:        "Password1!",
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		return refresh
	}

	t.Run("refresh returns a new access token and keeps the session", func(t *testing.T) {
		refresh := login(t)

		resp, err := svc.Refresh(context.Background(), refresh.Token)
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("Refresh() AccessToken is empty")
		}

		// The session survives until its own expiry
		if got, _ := tokenRepo.GetByToken(context.Background(), refresh.Token); got == nil {
			t.Error("Refresh() deleted the session")
		}
	})

	t.Run("refresh picks up role changes made after login", func(t *testing.T) {
		refresh := login(t)

		user.RoleCodes = []string{"USER", "ADMIN"}

		resp, err := svc.Refresh(context.Background(), refresh.Token)
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		codec, _ := token.NewProvider(testSecret, time.Hour)
		roles, err := codec.ExtractRoles(resp.AccessToken)
		if err != nil {
			t.Fatalf("ExtractRoles() error = %v", err)
		}
		if len(roles) != 2 {
			t.Errorf("Refresh() token roles = %v, want USER and ADMIN", roles)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "does-not-exist")
		if !errors.Is(err, ErrRefreshTokenNotFound) {
			t.Errorf("Refresh() error = %v, want ErrRefreshTokenNotFound", err)
		}
	})

	t.Run("expired token is rejected and deleted", func(t *testing.T) {
		refresh := login(t)
		refresh.ExpiryDate = time.Now().Add(-time.Minute)

		_, err := svc.Refresh(context.Background(), refresh.Token)
		if !errors.Is(err, ErrRefreshTokenExpired) {
			t.Fatalf("Refresh() error = %v, want ErrRefreshTokenExpired", err)
		}

		if got, _ := tokenRepo.GetByToken(context.Background(), refresh.Token); got != nil {
			t.Error("Refresh() kept an expired session")
		}
	})

	t.Run("token of a deleted user", func(t *testing.T) {
		refresh := login(t)
		delete(userRepo.users, user.ID)
		defer func() { userRepo.users[user.ID] = user }()

		_, err := svc.Refresh(context.Background(), refresh.Token)
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Refresh() error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, userRepo, tokenRepo := newTestAuthService(t)
	seedUser(t, userRepo, "dave", "dave@example.com", "Password1!", true, "USER")

	t.Run("logout deletes the session", func(t *testing.T) {
		_, refresh, err := svc.Login(context.Background(), &dto.LoginRequest{
			UsernameOrEmail: "dave",
			Password:        "Password1!",
		}, "127.0.0.1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		if err := svc.Logout(context.Background(), refresh.Token); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}

		if got, _ := tokenRepo.GetByToken(context.Background(), refresh.Token); got != nil {
			t.Error("Logout() left the session alive")
		}

		if _, err := svc.Refresh(context.Background(), refresh.Token); !errors.Is(err, ErrRefreshTokenNotFound) {
			t.Errorf("Refresh() after logout error = %v, want ErrRefreshTokenNotFound", err)
		}
	})

	t.Run("logout with unknown token is a no-op", func(t *testing.T) {
		if err := svc.Logout(context.Background(), "never-issued"); err != nil {
			t.Errorf("Logout() error = %v, want nil", err)
		}
	})
}
