// Package sanitizer strips markup from user-supplied text before it is
// persisted and later rendered in the client.
package sanitizer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer removes all HTML from free-text fields such as reminder
// titles and notes. These fields are plain text; any markup in them is
// either an accident or an injection attempt.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer creates a sanitizer with the strict no-markup policy
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips all HTML elements and trims surrounding whitespace
func (s *TextSanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(text))
}
