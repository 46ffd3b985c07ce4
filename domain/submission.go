package domain

import (
	"strings"
	"time"
)

// SubmissionStatus tracks how far the shop got with a contact request.
type SubmissionStatus string

const (
	StatusNew     SubmissionStatus = "new"
	StatusRead    SubmissionStatus = "read"
	StatusReplied SubmissionStatus = "replied"
	StatusClosed  SubmissionStatus = "closed"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusClosed:
		return true
	default:
		return false
	}
}

// ParseSubmissionStatus accepts the lowercase status names.
func ParseSubmissionStatus(raw string) (SubmissionStatus, error) {
	s := SubmissionStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", Invalidf("unknown submission status %q", raw)
	}
	return s, nil
}

// AllStatuses lists the statuses in their natural processing order.
func AllStatuses() []SubmissionStatus {
	return []SubmissionStatus{StatusNew, StatusRead, StatusReplied, StatusClosed}
}

// ContactSubmission is a message left through the public contact form.
type ContactSubmission struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Message   string           `json:"message"`
	Images    []string         `json:"images"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	Extra Extras `json:"-"`
}

func SubmissionID(s ContactSubmission) int { return s.ID }

func (s *ContactSubmission) Validate() error {
	if s == nil {
		return ErrInvalidPayload
	}
	switch {
	case strings.TrimSpace(s.Name) == "":
		return Invalidf("name is required")
	case strings.TrimSpace(s.Email) == "":
		return Invalidf("email is required")
	case !strings.Contains(s.Email, "@"):
		return Invalidf("email %q is not valid", s.Email)
	case strings.TrimSpace(s.Message) == "":
		return Invalidf("message is required")
	}
	return nil
}

// Transition moves the submission to next. Every transition is allowed,
// including moving backwards; it reports whether the status changed.
func (s *ContactSubmission) Transition(next SubmissionStatus, now time.Time) (bool, error) {
	if !next.Valid() {
		return false, Invalidf("unknown submission status %q", next)
	}
	if s.Status == next {
		return false, nil
	}
	s.Status = next
	s.Touch(now)
	return true, nil
}

func (s *ContactSubmission) Touch(now time.Time) {
	s.UpdatedAt = advance(s.UpdatedAt, now)
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}
}
