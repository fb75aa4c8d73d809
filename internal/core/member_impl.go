package core

import "github.com/dkeye/Lobby/internal/domain"

// memberSession implements MemberSession by pairing identity + transport.
type memberSession struct {
	id       SessionID
	identity domain.Identity
	signal   SignalConnection
}

func NewMemberSession(id SessionID, identity domain.Identity, signal SignalConnection) MemberSession {
	return &memberSession{id: id, identity: identity, signal: signal}
}

func (m *memberSession) ID() SessionID             { return m.id }
func (m *memberSession) Identity() domain.Identity { return m.identity }
func (m *memberSession) Signal() SignalConnection  { return m.signal }
