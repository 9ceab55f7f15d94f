package repository

import (
	"time"

	"github.com/google/uuid"
)

// Login status values for a user account
const (
	LoginStatusLoggedIn  = "logged-in"
	LoginStatusLoggedOut = "logged-out"
)

// User represents a fan-club member account in the database
type User struct {
	ID           uuid.UUID  `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Email        string     `db:"email"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	LoginStatus  string     `db:"login_status"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	LastLogoutAt *time.Time `db:"last_logout_at"`
}

// Reminder represents a user's note attached to an upcoming match.
// Match data comes from the external fixtures source and is denormalized
// into the row at creation time; matches themselves are never persisted.
// Dates use the YYYY-MM-DD wire format throughout, so lexical ordering
// on reminder_date is chronological.
type Reminder struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	MatchID       string    `db:"match_id" json:"matchId"`
	HomeTeam      string    `db:"home_team" json:"homeTeam"`
	AwayTeam      string    `db:"away_team" json:"awayTeam"`
	League        string    `db:"league" json:"league"`
	GameDate      string    `db:"game_date" json:"gameDate"`
	GameTime      string    `db:"game_time" json:"gameTime"`
	ReminderTitle string    `db:"reminder_title" json:"reminderTitle"`
	ReminderNote  string    `db:"reminder_note" json:"reminderNote"`
	ReminderDate  string    `db:"reminder_date" json:"reminderDate"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
