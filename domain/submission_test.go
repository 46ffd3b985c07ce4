package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissionStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		parsed, err := ParseSubmissionStatus(" " + string(s) + " ")
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseSubmissionStatus("archived")
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestSubmissionTransition(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := ContactSubmission{Status: StatusNew}
	s.Touch(now)

	changed, err := s.Transition(StatusRead, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.UpdatedAt.After(s.CreatedAt))

	changed, err = s.Transition(StatusRead, now)
	require.NoError(t, err)
	assert.False(t, changed)

	t.Run("backwards moves are allowed", func(t *testing.T) {
		_, err := s.Transition(StatusClosed, now)
		require.NoError(t, err)
		changed, err := s.Transition(StatusRead, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusRead, s.Status)
	})

	_, err = s.Transition("bogus", now)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestSubmissionValidate(t *testing.T) {
	ok := ContactSubmission{Name: "Max", Email: "max@example.de", Message: "Hallo"}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Email = "not-an-email"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Message = ""
	assert.Error(t, bad.Validate())
}
