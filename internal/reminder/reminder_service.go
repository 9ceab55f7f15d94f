package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/footyclub/backend/internal/repository"
	"github.com/footyclub/backend/internal/sanitizer"
)

// Service errors
var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrReminderExists   = errors.New("reminder already exists for this match")
	ErrValidationFailed = errors.New("validation failed")
)

// Error codes for API responses
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeReminderExists  = "REMINDER_EXISTS"
	CodeNotFound        = "NOT_FOUND"
)

// GameTimeTBD is stored when the fixture has no kick-off time yet
const GameTimeTBD = "TBD"

// CreateReminderRequest represents the request to create a reminder
type CreateReminderRequest struct {
	MatchID       string `json:"matchId"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	League        string `json:"league"`
	GameDate      string `json:"gameDate"`
	GameTime      string `json:"gameTime,omitempty"`
	ReminderTitle string `json:"reminderTitle"`
	ReminderNote  string `json:"reminderNote,omitempty"`
	ReminderDate  string `json:"reminderDate"`
}

// UpdateReminderRequest represents the request to update a reminder.
// Only the title, note, and reminder date are mutable; the match
// identity fields are fixed at creation.
type UpdateReminderRequest struct {
	MatchID       string `json:"matchId"`
	ReminderTitle string `json:"reminderTitle"`
	ReminderNote  string `json:"reminderNote,omitempty"`
	ReminderDate  string `json:"reminderDate"`
}

// Service handles reminder business logic. Every operation is scoped to
// the authenticated caller; there is no way to reach another user's rows.
type Service struct {
	repo      repository.ReminderRepository
	sanitizer *sanitizer.TextSanitizer
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new reminder Service instance
func NewService(repo repository.ReminderRepository, textSanitizer *sanitizer.TextSanitizer, logger *slog.Logger) *Service {
	if textSanitizer == nil {
		textSanitizer = sanitizer.NewTextSanitizer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		sanitizer: textSanitizer,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all reminders owned by the caller, ordered by reminder
// date ascending.
func (s *Service) List(ctx context.Context, callerID uuid.UUID) ([]repository.Reminder, error) {
	return s.repo.ListByUser(ctx, callerID)
}

// Create persists a new reminder for the caller. At most one reminder
// may exist per (caller, match) pair; a duplicate yields
// ErrReminderExists, which the client resolves by switching to edit
// mode rather than treating as a hard failure.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req CreateReminderRequest) (*repository.Reminder, []FieldError, error) {
	fieldErrors := validateCreate(req)
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, ErrValidationFailed
	}

	if dateErrors := ValidateDates(req.ReminderDate, req.GameDate, s.now().UTC()); len(dateErrors) > 0 {
		return nil, dateErrors, ErrValidationFailed
	}

	// Pre-check gives the client a clean conflict instead of a
	// duplicate-key surprise; the compound unique index still decides
	// races.
	if _, err := s.repo.GetByUserAndMatch(ctx, callerID, req.MatchID); err == nil {
		return nil, nil, ErrReminderExists
	} else if !errors.Is(err, repository.ErrReminderNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing reminder: %w", err)
	}

	gameTime := req.GameTime
	if gameTime == "" {
		gameTime = GameTimeTBD
	}

	rem := &repository.Reminder{
		UserID:        callerID,
		MatchID:       req.MatchID,
		HomeTeam:      req.HomeTeam,
		AwayTeam:      req.AwayTeam,
		League:        req.League,
		GameDate:      req.GameDate,
		GameTime:      gameTime,
		ReminderTitle: s.sanitizer.Sanitize(req.ReminderTitle),
		ReminderNote:  s.sanitizer.Sanitize(req.ReminderNote),
		ReminderDate:  req.ReminderDate,
	}

	if err := s.repo.Create(ctx, rem); err != nil {
		if errors.Is(err, repository.ErrReminderExists) {
			return nil, nil, ErrReminderExists
		}
		return nil, nil, err
	}

	s.logger.Info("reminder created",
		"reminder_id", rem.ID,
		"user_id", callerID,
		"match_id", rem.MatchID,
		"reminder_date", rem.ReminderDate,
	)
	return rem, nil, nil
}

// Update mutates the title, note, and date of the caller's reminder for
// a match. A reminder owned by another user is indistinguishable from a
// missing one: both return ErrReminderNotFound, so existence never leaks
// across accounts.
func (s *Service) Update(ctx context.Context, callerID uuid.UUID, req UpdateReminderRequest) (*repository.Reminder, []FieldError, error) {
	fieldErrors := validateUpdate(req)
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, ErrValidationFailed
	}

	existing, err := s.repo.GetByUserAndMatch(ctx, callerID, req.MatchID)
	if err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			return nil, nil, ErrReminderNotFound
		}
		return nil, nil, err
	}

	// The date window re-applies on edit, against the stored game date.
	if dateErrors := ValidateDates(req.ReminderDate, existing.GameDate, s.now().UTC()); len(dateErrors) > 0 {
		return nil, dateErrors, ErrValidationFailed
	}

	updated, err := s.repo.Update(ctx, callerID, req.MatchID,
		s.sanitizer.Sanitize(req.ReminderTitle),
		s.sanitizer.Sanitize(req.ReminderNote),
		req.ReminderDate,
	)
	if err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			return nil, nil, ErrReminderNotFound
		}
		return nil, nil, err
	}

	s.logger.Info("reminder updated",
		"reminder_id", updated.ID,
		"user_id", callerID,
		"match_id", updated.MatchID,
	)
	return updated, nil, nil
}

// Delete removes the caller's reminder for a match. Deleting a missing
// (or foreign) reminder is ErrReminderNotFound, never a silent success.
func (s *Service) Delete(ctx context.Context, callerID uuid.UUID, matchID string) error {
	if err := s.repo.Delete(ctx, callerID, matchID); err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			return ErrReminderNotFound
		}
		return err
	}

	s.logger.Info("reminder deleted", "user_id", callerID, "match_id", matchID)
	return nil
}

// validateCreate checks required fields on the create payload
func validateCreate(req CreateReminderRequest) []FieldError {
	var fieldErrors []FieldError
	required := []struct {
		field, value string
	}{
		{"matchId", req.MatchID},
		{"homeTeam", req.HomeTeam},
		{"awayTeam", req.AwayTeam},
		{"league", req.League},
		{"gameDate", req.GameDate},
		{"reminderTitle", req.ReminderTitle},
		{"reminderDate", req.ReminderDate},
	}
	for _, f := range required {
		if f.value == "" {
			fieldErrors = append(fieldErrors, FieldError{Field: f.field, Message: f.field + " is required"})
		}
	}
	return fieldErrors
}

// validateUpdate checks required fields on the update payload
func validateUpdate(req UpdateReminderRequest) []FieldError {
	var fieldErrors []FieldError
	required := []struct {
		field, value string
	}{
		{"matchId", req.MatchID},
		{"reminderTitle", req.ReminderTitle},
		{"reminderDate", req.ReminderDate},
	}
	for _, f := range required {
		if f.value == "" {
			fieldErrors = append(fieldErrors, FieldError{Field: f.field, Message: f.field + " is required"})
		}
	}
	return fieldErrors
}
