package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouchCreatesAndResumes(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	id, history := s.Touch("")
	require.NotEmpty(t, id)
	assert.Empty(t, history)

	s.Append(id, Message{Role: "user", Text: "hello"})
	resumed, history := s.Touch(id)
	assert.Equal(t, id, resumed)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Text)
}

func TestTouchUnknownIDStartsFresh(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	id, history := s.Touch("never-seen")
	assert.NotEqual(t, "never-seen", id)
	assert.Empty(t, history)
}

func TestExpiredSessionsEvictedOnAccess(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	id, _ := s.Touch("")
	s.Append(id, Message{Role: "user", Text: "hello"})
	assert.Equal(t, 1, s.Len())

	current = current.Add(2 * time.Minute)
	fresh, history := s.Touch(id)
	assert.NotEqual(t, id, fresh)
	assert.Empty(t, history)
}

func TestHistoryTrimmedToCap(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	id, _ := s.Touch("")
	for i := 0; i < defaultMaxHistory+5; i++ {
		s.Append(id, Message{Role: "user", Text: "m"})
	}
	_, history := s.Touch(id)
	assert.Len(t, history, defaultMaxHistory)
}

func TestAppendUnknownIDIsNoop(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Append("ghost", Message{Role: "user", Text: "boo"})
	assert.Equal(t, 0, s.Len())
}
