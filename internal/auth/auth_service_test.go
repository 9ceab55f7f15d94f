package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/footyclub/backend/internal/repository"
)

// mockUserRepository implements repository.UserRepository for testing
type mockUserRepository struct {
	users      map[string]*repository.User
	createErr  error
	setStatErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*repository.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *repository.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	email := strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == email {
			return repository.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return repository.ErrUsernameAlreadyExists
		}
	}
	user.ID = uuid.New()
	user.Email = email
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID.String()] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	if user, ok := m.users[id.String()]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*repository.User, error) {
	for _, u := range m.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) SetLoginStatus(ctx context.Context, id uuid.UUID, status string) error {
	if m.setStatErr != nil {
		return m.setStatErr
	}
	user, ok := m.users[id.String()]
	if !ok {
		return repository.ErrUserNotFound
	}
	now := time.Now().UTC()
	user.LoginStatus = status
	switch status {
	case repository.LoginStatusLoggedIn:
		user.LastLoginAt = &now
	case repository.LoginStatusLoggedOut:
		user.LastLogoutAt = &now
	}
	return nil
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName:       "Alice",
		LastName:        "Smith",
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestRegister_Success(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)

	fieldErrors, err := service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(fieldErrors) != 0 {
		t.Fatalf("unexpected field errors: %v", fieldErrors)
	}

	user, err := repo.GetByUsernameOrEmail(context.Background(), "alice")
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercase alice@example.com", user.Email)
	}
	if user.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}
	if user.LoginStatus != repository.LoginStatusLoggedOut {
		t.Errorf("login status = %q, want logged-out (registration creates no session)", user.LoginStatus)
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RegisterRequest)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing first name",
			mutate:    func(r *RegisterRequest) { r.FirstName = "" },
			wantField: "firstName",
			wantMsg:   "First name is required",
		},
		{
			name:      "missing last name",
			mutate:    func(r *RegisterRequest) { r.LastName = "" },
			wantField: "lastName",
			wantMsg:   "Last name is required",
		},
		{
			name:      "malformed email",
			mutate:    func(r *RegisterRequest) { r.Email = "not-an-email" },
			wantField: "email",
			wantMsg:   "Invalid email address",
		},
		{
			name:      "username too short",
			mutate:    func(r *RegisterRequest) { r.Username = "ab" },
			wantField: "username",
			wantMsg:   "Username must be between 3 and 30 characters",
		},
		{
			name:      "username too long",
			mutate:    func(r *RegisterRequest) { r.Username = strings.Repeat("a", 31) },
			wantField: "username",
			wantMsg:   "Username must be between 3 and 30 characters",
		},
		{
			name:      "password too short",
			mutate:    func(r *RegisterRequest) { r.Password = "12345"; r.ConfirmPassword = "12345" },
			wantField: "password",
			wantMsg:   "Password must be at least 6 characters",
		},
		{
			name:      "password mismatch",
			mutate:    func(r *RegisterRequest) { r.ConfirmPassword = "different" },
			wantField: "confirmPassword",
			wantMsg:   "Passwords don't match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(newMockUserRepository(), nil)
			req := validRegisterRequest()
			tt.mutate(&req)

			fieldErrors, err := service.Register(context.Background(), req)
			if err != nil {
				t.Fatalf("Register returned infrastructure error: %v", err)
			}
			if len(fieldErrors) == 0 {
				t.Fatal("expected a field error, got none")
			}

			found := false
			for _, fe := range fieldErrors {
				if fe.Field == tt.wantField && fe.Message == tt.wantMsg {
					found = true
				}
			}
			if !found {
				t.Errorf("missing %s error %q, got %v", tt.wantField, tt.wantMsg, fieldErrors)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)

	if _, err := service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	// Same email, different username and case.
	req := validRegisterRequest()
	req.Email = "ALICE@example.com"
	req.Username = "alice2"

	fieldErrors, err := service.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register returned infrastructure error: %v", err)
	}
	if len(fieldErrors) != 1 || fieldErrors[0].Field != "email" || fieldErrors[0].Message != "Email already registered" {
		t.Errorf("expected email-taken error, got %v", fieldErrors)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)

	if _, err := service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	req := validRegisterRequest()
	req.Email = "other@example.com"

	fieldErrors, err := service.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register returned infrastructure error: %v", err)
	}
	if len(fieldErrors) != 1 || fieldErrors[0].Field != "username" || fieldErrors[0].Message != "Username already taken" {
		t.Errorf("expected username-taken error, got %v", fieldErrors)
	}
}

func TestRegister_RaceLostToConcurrentSignup(t *testing.T) {
	// The pre-check passes but the insert hits the unique index.
	repo := newMockUserRepository()
	repo.createErr = repository.ErrEmailAlreadyExists
	service := NewService(repo, nil)

	fieldErrors, err := service.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("race should surface as a field error, got: %v", err)
	}
	if len(fieldErrors) != 1 || fieldErrors[0].Message != "Email already registered" {
		t.Errorf("expected email-taken error, got %v", fieldErrors)
	}
}

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)
	if _, err := service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, identifier := range []string{"alice", "alice@example.com", "ALICE@example.com"} {
		snapshot, err := service.Login(context.Background(), LoginRequest{
			UsernameOrEmail: identifier,
			Password:        "secret123",
		})
		if err != nil {
			t.Fatalf("Login with %q failed: %v", identifier, err)
		}
		if snapshot.Username != "alice" {
			t.Errorf("snapshot.Username = %q, want alice", snapshot.Username)
		}
		if snapshot.LoginStatus != repository.LoginStatusLoggedIn {
			t.Errorf("snapshot.LoginStatus = %q, want logged-in", snapshot.LoginStatus)
		}
		if snapshot.LastLoginAt == "" {
			t.Error("snapshot.LastLoginAt not stamped")
		}
		if _, err := time.Parse(time.RFC3339, snapshot.LastLoginAt); err != nil {
			t.Errorf("LastLoginAt not RFC3339: %q", snapshot.LastLoginAt)
		}
	}
}

func TestLogin_LegacyUsernameField(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)
	if _, err := service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snapshot, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login via legacy username field failed: %v", err)
	}
	if snapshot.Username != "alice" {
		t.Errorf("snapshot.Username = %q, want alice", snapshot.Username)
	}
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)
	if _, err := service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown account and wrong password must produce the same error so
	// callers cannot probe which usernames exist.
	_, errUnknown := service.Login(context.Background(), LoginRequest{
		UsernameOrEmail: "nobody",
		Password:        "secret123",
	})
	_, errWrongPass := service.Login(context.Background(), LoginRequest{
		UsernameOrEmail: "alice",
		Password:        "wrong-password",
	})

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrongPass)
	}
}

func TestLogout_SetsLoggedOut(t *testing.T) {
	repo := newMockUserRepository()
	service := NewService(repo, nil)
	if _, err := service.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snapshot, err := service.Login(context.Background(), LoginRequest{
		UsernameOrEmail: "alice",
		Password:        "secret123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := service.Logout(context.Background(), snapshot); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	user, err := repo.GetByUsernameOrEmail(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if user.LoginStatus != repository.LoginStatusLoggedOut {
		t.Errorf("login status after logout = %q, want logged-out", user.LoginStatus)
	}
	if user.LastLogoutAt == nil {
		t.Error("last_logout_at not stamped")
	}
}

func TestSnapshot_OmitsPasswordHash(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		repo := newMockUserRepository()
		service := NewService(repo, nil)

		username := rapid.StringMatching(`[a-z][a-z0-9]{2,29}`).Draw(t, "username")
		password := rapid.StringMatching(`[a-zA-Z0-9]{6,40}`).Draw(t, "password")

		req := RegisterRequest{
			FirstName:       rapid.StringMatching(`[A-Z][a-z]{1,20}`).Draw(t, "firstName"),
			LastName:        rapid.StringMatching(`[A-Z][a-z]{1,20}`).Draw(t, "lastName"),
			Email:           username + "@example.com",
			Username:        username,
			Password:        password,
			ConfirmPassword: password,
		}

		fieldErrors, err := service.Register(context.Background(), req)
		if err != nil || len(fieldErrors) != 0 {
			t.Fatalf("Register failed: %v %v", err, fieldErrors)
		}

		snapshot, err := service.Login(context.Background(), LoginRequest{
			UsernameOrEmail: username,
			Password:        password,
		})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if snapshot.ID == "" {
			t.Error("snapshot missing user id")
		}
		if snapshot.Email != strings.ToLower(req.Email) {
			t.Errorf("snapshot.Email = %q, want %q", snapshot.Email, strings.ToLower(req.Email))
		}

		raw, err := json.Marshal(snapshot)
		if err != nil {
			t.Fatalf("marshal snapshot: %v", err)
		}
		if strings.Contains(string(raw), password) || strings.Contains(string(raw), "$2") {
			t.Errorf("credential material leaked into snapshot: %s", raw)
		}
	})
}
