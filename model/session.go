package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNoMessage = errors.New("no such message")

// Session is the append-only conversation log for one run of the app.
type Session struct {
	ID       string
	ShortID  string // first8 of ID
	Started  time.Time
	messages []Message
}

func NewSession() *Session {
	id := uuid.NewString()
	return &Session{
		ID:      id,
		ShortID: id[:8],
		Started: time.Now(),
	}
}

// Append adds a line and returns its index.
func (s *Session) Append(role Role, text string) int {
	idx := len(s.messages)
	s.messages = append(s.messages, Message{Role: role, Text: text, Index: idx})
	return idx
}

// Rewrite replaces the text of the message at idx, keeping its role.
func (s *Session) Rewrite(idx int, text string) error {
	if idx < 0 || idx >= len(s.messages) {
		return fmt.Errorf("rewrite %d of %d: %w", idx, len(s.messages), ErrNoMessage)
	}
	s.messages[idx].Text = text
	return nil
}

// At returns the message at idx.
func (s *Session) At(idx int) (Message, bool) {
	if idx < 0 || idx >= len(s.messages) {
		return Message{}, false
	}
	return s.messages[idx], true
}

// Messages returns a copy of the log.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	return len(s.messages)
}
