package core

import "github.com/dkeye/Lobby/internal/domain"

type SessionID string

// MemberSession binds a verified identity and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Identity() domain.Identity
	Signal() SignalConnection
}
