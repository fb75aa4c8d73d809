package core

import (
	"errors"

	"github.com/dkeye/Lobby/internal/domain"
)

// ErrRoomClosed is returned by a room that has already been reclaimed.
var ErrRoomClosed = errors.New("room closed")

// Drop is a failed delivery to one member.
type Drop struct {
	Session MemberSession
	Err     error
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []Drop
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"name"`
}

// Greeter is invoked once a session is admitted, with the history snapshot
// taken at admission. Nothing else is fanned out to the room while it runs.
type Greeter func(room RoomService, history []domain.Message)

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO
	History() []domain.Message
	HistoryLen() int

	Admit(ms MemberSession, greet Greeter) error
	RemoveMember(sid SessionID) (removed bool, remaining int)
	FindByUser(uid domain.UserID) (MemberSession, bool)
	SessionsOf(uid domain.UserID) []MemberSession

	Broadcast(exclude SessionID, data Frame) PublishResult
	Publish(msg domain.Message, data Frame) (PublishResult, error)

	// CloseIfEmpty marks the room closed when it has no members.
	// A closed room rejects Admit and Publish.
	CloseIfEmpty() bool
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
	History     int             `json:"history"`
}

// RoomManager is the process-wide room table.
type RoomManager interface {
	GetOrCreate(name domain.RoomName) RoomService
	Get(name domain.RoomName) (RoomService, bool)
	// Join admits ms into the named room, creating it if needed.
	Join(name domain.RoomName, ms MemberSession, greet Greeter) RoomService
	List() []RoomInfo
	// RemoveIfEmpty drops the room only if it has no members at call time.
	RemoveIfEmpty(name domain.RoomName) bool
}
