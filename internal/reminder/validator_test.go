package reminder

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

var testNow = time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)

func hasFieldError(fieldErrors []FieldError, field, message string) bool {
	for _, fe := range fieldErrors {
		if fe.Field == field && fe.Message == message {
			return true
		}
	}
	return false
}

func TestValidateDates_Window(t *testing.T) {
	tests := []struct {
		name         string
		reminderDate string
		gameDate     string
		wantMessage  string
	}{
		{
			name:         "reminder today for match today",
			reminderDate: "2026-08-27",
			gameDate:     "2026-08-27",
		},
		{
			name:         "reminder today for a future match",
			reminderDate: "2026-08-27",
			gameDate:     "2026-09-05",
		},
		{
			name:         "reminder on the match date",
			reminderDate: "2026-09-05",
			gameDate:     "2026-09-05",
		},
		{
			name:         "reminder yesterday",
			reminderDate: "2026-08-26",
			gameDate:     "2026-09-05",
			wantMessage:  "Reminder date cannot be in the past",
		},
		{
			name:         "reminder after the match",
			reminderDate: "2026-09-06",
			gameDate:     "2026-09-05",
			wantMessage:  "Reminder date must be on or before the match date",
		},
		{
			name:         "malformed reminder date",
			reminderDate: "09/05/2026",
			gameDate:     "2026-09-05",
			wantMessage:  "Reminder date must be in YYYY-MM-DD format",
		},
		{
			name:         "malformed game date",
			reminderDate: "2026-09-05",
			gameDate:     "next saturday",
			wantMessage:  "Game date must be in YYYY-MM-DD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors := ValidateDates(tt.reminderDate, tt.gameDate, testNow)
			if tt.wantMessage == "" {
				if len(fieldErrors) != 0 {
					t.Errorf("unexpected errors: %v", fieldErrors)
				}
				return
			}
			found := false
			for _, fe := range fieldErrors {
				if fe.Message == tt.wantMessage {
					found = true
				}
			}
			if !found {
				t.Errorf("missing %q, got %v", tt.wantMessage, fieldErrors)
			}
		})
	}
}

func TestValidateDates_TimeOfDayIrrelevant(t *testing.T) {
	// The window compares calendar days; a reminder for today must be
	// accepted even at 23:59.
	lateNow := time.Date(2026, 8, 27, 23, 59, 59, 0, time.UTC)
	if fieldErrors := ValidateDates("2026-08-27", "2026-08-30", lateNow); len(fieldErrors) != 0 {
		t.Errorf("reminder for today rejected late in the day: %v", fieldErrors)
	}
}

func TestValidateDates_WindowProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dayOffsetReminder := rapid.IntRange(-30, 60).Draw(t, "reminderOffset")
		dayOffsetGame := rapid.IntRange(-30, 60).Draw(t, "gameOffset")

		reminderDate := testNow.AddDate(0, 0, dayOffsetReminder).Format(DateFormat)
		gameDate := testNow.AddDate(0, 0, dayOffsetGame).Format(DateFormat)

		fieldErrors := ValidateDates(reminderDate, gameDate, testNow)

		inWindow := dayOffsetReminder >= 0 && dayOffsetReminder <= dayOffsetGame
		if inWindow && len(fieldErrors) != 0 {
			t.Fatalf("valid window (%s, %s) rejected: %v", reminderDate, gameDate, fieldErrors)
		}
		if !inWindow && len(fieldErrors) == 0 {
			t.Fatalf("out-of-window (%s, %s) accepted", reminderDate, gameDate)
		}
	})
}
