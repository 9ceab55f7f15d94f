package reminder

import (
	"time"
)

// DateFormat is the wire format for match and reminder dates
const DateFormat = time.DateOnly

// FieldError represents a validation error scoped to a request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateDates enforces the reminder date window: the reminder must not
// be in the past and must not fall after the match itself, i.e.
// today <= reminderDate <= gameDate. The comparison uses calendar days,
// so a reminder for today is accepted. The server check is authoritative;
// the client performs the same check for UX only.
func ValidateDates(reminderDate, gameDate string, now time.Time) []FieldError {
	var fieldErrors []FieldError

	rd, err := time.Parse(DateFormat, reminderDate)
	if err != nil {
		return []FieldError{{Field: "reminderDate", Message: "Reminder date must be in YYYY-MM-DD format"}}
	}

	gd, err := time.Parse(DateFormat, gameDate)
	if err != nil {
		return []FieldError{{Field: "gameDate", Message: "Game date must be in YYYY-MM-DD format"}}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if rd.Before(today) {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "reminderDate",
			Message: "Reminder date cannot be in the past",
		})
	}
	if rd.After(gd) {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   "reminderDate",
			Message: "Reminder date must be on or before the match date",
		})
	}

	return fieldErrors
}
