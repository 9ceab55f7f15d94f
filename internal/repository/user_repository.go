package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User repository errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SetLoginStatus(ctx context.Context, id uuid.UUID, status string) error
}

// userRepository implements UserRepository using PostgreSQL
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Create inserts a new user. Email is stored lowercase; the unique
// indexes on email and username back the registration uniqueness checks,
// so a lost pre-check race still cannot produce two accounts.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, username, password_hash, login_status)
		VALUES ($1, $2, LOWER($3), $4, $5, $6)
		RETURNING id, created_at
	`

	if user.LoginStatus == "" {
		user.LoginStatus = LoginStatusLoggedOut
	}

	err := r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.LoginStatus,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "idx_users_email") {
			return ErrEmailAlreadyExists
		}
		if strings.Contains(err.Error(), "idx_users_username") {
			return ErrUsernameAlreadyExists
		}
		return err
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, username, password_hash,
		       login_status, created_at, last_login_at, last_logout_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByUsernameOrEmail retrieves a user whose username or email matches
// the identifier. Usernames match exactly as stored; emails are stored
// lowercase, so the identifier is lowered for that comparison.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, username, password_hash,
		       login_status, created_at, last_login_at, last_logout_at
		FROM users
		WHERE username = $1 OR email = LOWER($1)
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, identifier))
}

// EmailExists checks if an email address is already registered (case-insensitive)
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = LOWER($1))`

	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UsernameExists checks if a username is already taken
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// SetLoginStatus updates the login status and stamps the matching
// timestamp: last_login_at for logged-in, last_logout_at for logged-out.
func (r *userRepository) SetLoginStatus(ctx context.Context, id uuid.UUID, status string) error {
	var query string
	switch status {
	case LoginStatusLoggedIn:
		query = `UPDATE users SET login_status = $1, last_login_at = $2 WHERE id = $3`
	case LoginStatusLoggedOut:
		query = `UPDATE users SET login_status = $1, last_logout_at = $2 WHERE id = $3`
	default:
		return errors.New("unknown login status: " + status)
	}

	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.LoginStatus,
		&user.CreatedAt,
		&user.LastLoginAt,
		&user.LastLogoutAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
