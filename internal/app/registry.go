package app

import (
	"context"
	"sync"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	RoomName domain.RoomName
	Session  core.MemberSession
	Cancel   context.CancelFunc
}

// Registry tracks every live session of the process, whatever its room.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

func (r *Registry) BindSession(
	sess core.MemberSession,
	cancel context.CancelFunc,
) {
	sid := sess.ID()
	roomName := sess.Identity().Room
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		RoomName: roomName,
		Session:  sess,
		Cancel:   cancel,
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomName)).Msg("bound session")
}

// Unbind removes sid and reports whether it was bound. Only the first call
// for a session returns true.
func (r *Registry) Unbind(sid core.SessionID) (domain.RoomName, core.MemberSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return "", nil, false
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return e.RoomName, e.Session, true
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomName, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return "", nil, false
	}
	return entry.RoomName, entry.Session, true
}

// SessionRef is a point-in-time view of one registry entry.
type SessionRef struct {
	SID      core.SessionID
	RoomName domain.RoomName
	Session  core.MemberSession
}

// SessionsOfUser lists the live sessions held by uid across all rooms.
func (r *Registry) SessionsOfUser(uid domain.UserID) []SessionRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []SessionRef
	for sid, e := range r.sessions {
		if e.Session.Identity().User.ID == uid {
			out = append(out, SessionRef{SID: sid, RoomName: e.RoomName, Session: e.Session})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// CancelAll cancels every live session. Used on shutdown.
func (r *Registry) CancelAll() int {
	r.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
	}
	r.mu.RUnlock()
	for _, c := range cancels {
		c()
	}
	log.Info().Str("module", "app.registry").Int("sessions", len(cancels)).Msg("canceled all sessions")
	return len(cancels)
}
