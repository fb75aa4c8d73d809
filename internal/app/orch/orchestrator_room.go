package orch

import (
	"context"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/dkeye/Lobby/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Join attaches ms to its room. The new session gets its welcome and the
// history snapshot before anything else fanned out to the room; the others
// then learn about it through a join presence and a fresh user list.
func (o *Orchestrator) Join(ctx context.Context, ms core.MemberSession, cancel context.CancelFunc) core.RoomService {
	id := ms.Identity()
	user := o.resolve(ctx, id.User)

	o.Registry.BindSession(ms, cancel)

	room := o.Rooms.Join(id.Room, ms, func(room core.RoomService, history []domain.Message) {
		o.sendDirect(room, ms, protocol.NewWelcome(id, user.Username))
		if len(history) > 0 {
			o.sendDirect(room, ms, protocol.NewHistory(history))
		}
	})
	log.Info().Str("module", "orch").Str("sid", string(ms.ID())).Str("room", string(id.Room)).Str("user", string(user.ID)).Msg("joined")

	o.broadcast(room, ms.ID(), protocol.NewPresence(protocol.PresenceJoin, user))
	o.broadcastUsers(ctx, room)
	return room
}

// OnDisconnect detaches sid. Only the first call for a session has any effect.
func (o *Orchestrator) OnDisconnect(ctx context.Context, sid core.SessionID) {
	roomName, ms, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	room, ok := o.Rooms.Get(roomName)
	if !ok {
		return
	}
	removed, remaining := room.RemoveMember(sid)
	if !removed {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Int("remaining", remaining).Msg("left")

	user := o.resolve(ctx, ms.Identity().User)
	o.broadcast(room, "", protocol.NewPresence(protocol.PresenceLeave, user))
	if remaining == 0 {
		if o.Reclaimer != nil {
			o.Reclaimer.Schedule(roomName)
		}
		return
	}
	o.broadcastUsers(ctx, room)
}

func (o *Orchestrator) users(ctx context.Context, room core.RoomService) []domain.User {
	members := room.MembersSnapshot()
	out := make([]domain.User, 0, len(members))
	for _, m := range members {
		out = append(out, o.resolve(ctx, domain.User{ID: m.ID, Username: m.Username}))
	}
	return out
}

func (o *Orchestrator) broadcastUsers(ctx context.Context, room core.RoomService) {
	o.broadcast(room, "", protocol.NewUserList(o.users(ctx, room)))
}

// SendUsers answers a get-users request privately.
func (o *Orchestrator) SendUsers(ctx context.Context, sid core.SessionID) {
	roomName, ms, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	room, ok := o.Rooms.Get(roomName)
	if !ok {
		return
	}
	o.sendDirect(room, ms, protocol.NewUserList(o.users(ctx, room)))
}

// Members lists the current members of a room for the HTTP API.
func (o *Orchestrator) Members(ctx context.Context, name domain.RoomName) ([]domain.User, bool) {
	room, ok := o.Rooms.Get(name)
	if !ok {
		return nil, false
	}
	return o.users(ctx, room), true
}
