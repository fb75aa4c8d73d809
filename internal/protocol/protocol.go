// Package protocol defines the JSON frames exchanged over the chat socket.
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Lobby/internal/domain"
)

// Client to server.
const (
	TypeChat     = "chat"
	TypePing     = "ping"
	TypeGetUsers = "get-users"

	TypeCallOffer    = "call-offer"
	TypeCallAnswer   = "call-answer"
	TypeICECandidate = "ice-candidate"
	TypeCallEnd      = "call-end"
	TypeCallDecline  = "call-decline"
)

// Server to client. Chat and the call types are reused in both directions.
const (
	TypeWelcome  = "welcome"
	TypeHistory  = "history"
	TypePresence = "presence"
	TypeUserList = "user_list"
	TypePong     = "pong"
)

const (
	PresenceJoin   = "join"
	PresenceLeave  = "leave"
	PresenceRename = "rename"
)

var ErrMissingField = errors.New("missing required field")

// IsSignal reports whether t is relayed point-to-point.
func IsSignal(t string) bool {
	switch t {
	case TypeCallOffer, TypeCallAnswer, TypeICECandidate, TypeCallEnd, TypeCallDecline:
		return true
	}
	return false
}

// Envelope is the discriminator every inbound frame carries.
type Envelope struct {
	Type string `json:"type"`
}

type ChatRequest struct {
	Text *string `json:"text"`
}

type SignalRequest struct {
	Target domain.UserID   `json:"target"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// DecodeChat parses a chat frame; text must be present and a string.
func DecodeChat(data []byte) (string, error) {
	var p ChatRequest
	if err := json.Unmarshal(data, &p); err != nil {
		return "", err
	}
	if p.Text == nil {
		return "", ErrMissingField
	}
	return *p.Text, nil
}

// DecodeSignal parses a call-* frame; target is required, data is opaque.
func DecodeSignal(data []byte) (SignalRequest, error) {
	var p SignalRequest
	if err := json.Unmarshal(data, &p); err != nil {
		return SignalRequest{}, err
	}
	if p.Target == "" {
		return SignalRequest{}, ErrMissingField
	}
	return p, nil
}

type Welcome struct {
	Type     string          `json:"type"`
	Room     domain.RoomName `json:"room"`
	Username string          `json:"username"`
	UID      domain.UserID   `json:"uid"`
}

type History struct {
	Type     string           `json:"type"`
	Messages []domain.Message `json:"messages"`
}

type Presence struct {
	Type     string      `json:"type"`
	Subtype  string      `json:"subtype"`
	User     domain.User `json:"user"`
	Previous string      `json:"previous,omitempty"`
}

type Chat struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

type UserList struct {
	Type  string        `json:"type"`
	Users []domain.User `json:"users"`
}

type Pong struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
}

// Signal is a relayed call-* frame. Data is forwarded untouched and is null
// when the sender gave none.
type Signal struct {
	Type string          `json:"type"`
	From domain.User     `json:"from"`
	Data json.RawMessage `json:"data"`
}

func NewWelcome(id domain.Identity, username string) Welcome {
	return Welcome{Type: TypeWelcome, Room: id.Room, Username: username, UID: id.User.ID}
}

func NewHistory(messages []domain.Message) History {
	return History{Type: TypeHistory, Messages: messages}
}

func NewPresence(subtype string, u domain.User) Presence {
	return Presence{Type: TypePresence, Subtype: subtype, User: u}
}

func NewChat(m domain.Message) Chat { return Chat{Type: TypeChat, Message: m} }

func NewUserList(users []domain.User) UserList {
	if users == nil {
		users = []domain.User{}
	}
	return UserList{Type: TypeUserList, Users: users}
}

func NewPong(ts int64) Pong { return Pong{Type: TypePong, TS: ts} }
