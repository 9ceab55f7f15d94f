package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/footyclub/backend/internal/repository"
	"github.com/footyclub/backend/internal/session"
)

// Auth service errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Error codes for API responses
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
)

// RegisterRequest represents the sign-up payload
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest represents the sign-in payload. Username is accepted as
// a legacy alias for UsernameOrEmail.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

// FieldError represents a validation error scoped to a request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Service handles registration, sign-in, and sign-out
type Service struct {
	userRepo repository.UserRepository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates a new auth Service instance
func NewService(userRepo repository.UserRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepo: userRepo,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates a new user account. Field-scoped validation errors
// are returned separately from infrastructure failures; no session is
// created as a side effect.
func (s *Service) Register(ctx context.Context, req RegisterRequest) ([]FieldError, error) {
	fieldErrors := s.validateRegister(req)
	if len(fieldErrors) > 0 {
		return fieldErrors, nil
	}

	// Uniqueness pre-check gives field-scoped messages for both fields
	// at once; the unique indexes remain authoritative under races.
	emailTaken, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	usernameTaken, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		fieldErrors = append(fieldErrors, FieldError{Field: "email", Message: "Email already registered"})
	}
	if usernameTaken {
		fieldErrors = append(fieldErrors, FieldError{Field: "username", Message: "Username already taken"})
	}
	if len(fieldErrors) > 0 {
		return fieldErrors, nil
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &repository.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		LoginStatus:  repository.LoginStatusLoggedOut,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against a concurrent registration; report it the
		// same way as the pre-check.
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			return []FieldError{{Field: "email", Message: "Email already registered"}}, nil
		}
		if errors.Is(err, repository.ErrUsernameAlreadyExists) {
			return []FieldError{{Field: "username", Message: "Username already taken"}}, nil
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return nil, nil
}

// Login authenticates by username or email and returns the public
// snapshot to embed in the session cookie. Any mismatch yields the same
// generic error so callers cannot probe which accounts exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*session.UserSession, error) {
	identifier := req.UsernameOrEmail
	if identifier == "" {
		identifier = req.Username
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.SetLoginStatus(ctx, user.ID, repository.LoginStatusLoggedIn); err != nil {
		return nil, err
	}

	// Refresh to pick up the stamped last_login_at for the snapshot.
	if refreshed, err := s.userRepo.GetByID(ctx, user.ID); err == nil {
		user = refreshed
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return Snapshot(user), nil
}

// Logout marks the caller's account logged-out. The session cookie is
// cleared by the handler regardless of whether this succeeds.
func (s *Service) Logout(ctx context.Context, caller *session.UserSession) error {
	id, err := uuid.Parse(caller.ID)
	if err != nil {
		return repository.ErrUserNotFound
	}

	if err := s.userRepo.SetLoginStatus(ctx, id, repository.LoginStatusLoggedOut); err != nil {
		return err
	}

	s.logger.Info("user logged out", "user_id", id, "username", caller.Username)
	return nil
}

// Snapshot builds the public session snapshot for a user. The password
// hash is deliberately absent.
func Snapshot(user *repository.User) *session.UserSession {
	lastLogin := ""
	if user.LastLoginAt != nil {
		lastLogin = user.LastLoginAt.UTC().Format(time.RFC3339)
	}
	return &session.UserSession{
		ID:          user.ID.String(),
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		LoginStatus: user.LoginStatus,
		LastLoginAt: lastLogin,
	}
}

// validateRegister maps validator tag failures to the user-facing
// field-scoped messages the sign-up form shows.
func (s *Service) validateRegister(req RegisterRequest) []FieldError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []FieldError{{Field: "general", Message: "Invalid sign-up request"}}
	}

	var fieldErrors []FieldError
	for _, fe := range invalid {
		switch fe.Field() {
		case "FirstName":
			fieldErrors = append(fieldErrors, FieldError{Field: "firstName", Message: "First name is required"})
		case "LastName":
			fieldErrors = append(fieldErrors, FieldError{Field: "lastName", Message: "Last name is required"})
		case "Email":
			fieldErrors = append(fieldErrors, FieldError{Field: "email", Message: "Invalid email address"})
		case "Username":
			fieldErrors = append(fieldErrors, FieldError{Field: "username", Message: "Username must be between 3 and 30 characters"})
		case "Password":
			fieldErrors = append(fieldErrors, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
		case "ConfirmPassword":
			fieldErrors = append(fieldErrors, FieldError{Field: "confirmPassword", Message: "Passwords don't match"})
		}
	}
	return fieldErrors
}
