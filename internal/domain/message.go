package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrMessageEmpty = errors.New("message empty")

// Message is a chat line as stored in room history. Immutable once appended.
type Message struct {
	ID   string `json:"id"`
	User User   `json:"user"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// NewMessage snapshots sender and stamps the message with a fresh id and at.
func NewMessage(sender User, text string, at time.Time) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrMessageEmpty
	}
	return Message{
		ID:   uuid.NewString(),
		User: sender,
		Text: text,
		TS:   at.UnixMilli(),
	}, nil
}
