package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Reminder repository errors
var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrReminderExists   = errors.New("reminder already exists for this match")
)

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	GetByUserAndMatch(ctx context.Context, userID uuid.UUID, matchID string) (*Reminder, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reminder, error)
	Update(ctx context.Context, userID uuid.UUID, matchID, title, note, reminderDate string) (*Reminder, error)
	Delete(ctx context.Context, userID uuid.UUID, matchID string) error
}

// reminderRepository implements ReminderRepository using PostgreSQL via sqlx
type reminderRepository struct {
	db *sqlx.DB
}

// NewReminderRepository creates a new ReminderRepository instance
func NewReminderRepository(db *sqlx.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

// Create inserts a new reminder. The compound unique index on
// (user_id, match_id) is the authority for the one-reminder-per-match
// invariant: when two concurrent creates race past the service-level
// pre-check, exactly one insert succeeds and the other surfaces
// ErrReminderExists.
func (r *reminderRepository) Create(ctx context.Context, reminder *Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, match_id, home_team, away_team, league,
		                       game_date, game_time, reminder_title, reminder_note,
		                       reminder_date, created_at, updated_at)
		VALUES (:id, :user_id, :match_id, :home_team, :away_team, :league,
		        :game_date, :game_time, :reminder_title, :reminder_note,
		        :reminder_date, :created_at, :updated_at)
	`

	now := time.Now().UTC()
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, reminder)
	if err != nil {
		if strings.Contains(err.Error(), "idx_reminders_user_match") {
			return ErrReminderExists
		}
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// GetByUserAndMatch retrieves the reminder for a (user, match) pair
func (r *reminderRepository) GetByUserAndMatch(ctx context.Context, userID uuid.UUID, matchID string) (*Reminder, error) {
	query := `
		SELECT id, user_id, match_id, home_team, away_team, league,
		       game_date, game_time, reminder_title, reminder_note,
		       reminder_date, created_at, updated_at
		FROM reminders
		WHERE user_id = $1 AND match_id = $2
	`

	reminder := &Reminder{}
	err := r.db.GetContext(ctx, reminder, query, userID, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return reminder, nil
}

// ListByUser retrieves all reminders owned by a user, soonest reminder first
func (r *reminderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Reminder, error) {
	query := `
		SELECT id, user_id, match_id, home_team, away_team, league,
		       game_date, game_time, reminder_title, reminder_note,
		       reminder_date, created_at, updated_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY reminder_date ASC, created_at ASC
	`

	reminders := []Reminder{}
	if err := r.db.SelectContext(ctx, &reminders, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// Update mutates the title, note, and reminder date of the reminder for
// a (user, match) pair and returns the updated row. Identity fields
// (match, teams, league, game date) are immutable after creation.
func (r *reminderRepository) Update(ctx context.Context, userID uuid.UUID, matchID, title, note, reminderDate string) (*Reminder, error) {
	query := `
		UPDATE reminders
		SET reminder_title = $1, reminder_note = $2, reminder_date = $3, updated_at = $4
		WHERE user_id = $5 AND match_id = $6
		RETURNING id, user_id, match_id, home_team, away_team, league,
		          game_date, game_time, reminder_title, reminder_note,
		          reminder_date, created_at, updated_at
	`

	reminder := &Reminder{}
	err := r.db.GetContext(ctx, reminder, query, title, note, reminderDate, time.Now().UTC(), userID, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	return reminder, nil
}

// Delete removes the reminder for a (user, match) pair. Deleting a
// reminder that does not exist is an error, not a no-op.
func (r *reminderRepository) Delete(ctx context.Context, userID uuid.UUID, matchID string) error {
	query := `DELETE FROM reminders WHERE user_id = $1 AND match_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrReminderNotFound
	}
	return nil
}
