package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Submission is a competition proposed by an organizer through the submit form.
// It is validated and acknowledged, never added to the catalog directly.
type Submission struct {
	Title             string            `json:"title"`
	Organizer         string            `json:"organizer"`
	Description       string            `json:"description"`
	Category          string            `json:"category"`
	Level             Level             `json:"level"`
	Format            Format            `json:"format"`
	ParticipationType ParticipationType `json:"participation_type"`
	RegistrationStart string            `json:"registration_start"` // YYYY-MM-DD
	RegistrationEnd   string            `json:"registration_end"`   // YYYY-MM-DD
	RegistrationURL   string            `json:"registration_url"`
	Prize             string            `json:"prize"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected field of a submission.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Validate checks the submission and returns a *ValidationError listing
// every problem, or nil.
func (s *Submission) Validate() error {
	verr := &ValidationError{}

	checkLength(verr, "title", s.Title, 5, 100)
	checkLength(verr, "organizer", s.Organizer, 3, 100)
	checkLength(verr, "description", s.Description, 20, 1000)

	if !IsCategory(s.Category) {
		verr.add("category", "choose one of the listed categories")
	}
	if !s.Level.Valid() {
		verr.add("level", "choose one of the listed levels")
	}
	if !s.Format.Valid() {
		verr.add("format", "must be online, offline or hybrid")
	}
	if !s.ParticipationType.Valid() {
		verr.add("participation_type", "must be individual or team")
	}

	start, startErr := ParseDate(s.RegistrationStart)
	if startErr != nil {
		verr.add("registration_start", "a YYYY-MM-DD date is required")
	}
	end, endErr := ParseDate(s.RegistrationEnd)
	if endErr != nil {
		verr.add("registration_end", "a YYYY-MM-DD date is required")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		verr.add("registration_end", "must not be before registration_start")
	}

	if !isHTTPURL(strings.TrimSpace(s.RegistrationURL)) {
		verr.add("registration_url", "must be an absolute http(s) URL")
	}
	if strings.TrimSpace(s.Prize) == "" {
		verr.add("prize", "is required")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func checkLength(verr *ValidationError, field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n < minLen:
		verr.add(field, "must be at least %d characters", minLen)
	case n > maxLen:
		verr.add(field, "must be at most %d characters", maxLen)
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
