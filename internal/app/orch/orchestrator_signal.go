package orch

import (
	"context"
	"encoding/json"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/dkeye/Lobby/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards a call-* payload from sid to the member of the same room
// whose user id is target. data is passed through untouched. An unknown
// target is a silent no-op; the return value is only for the caller's logs.
func (o *Orchestrator) Relay(ctx context.Context, sid core.SessionID, kind string, target domain.UserID, data json.RawMessage) bool {
	if !protocol.IsSignal(kind) {
		return false
	}
	roomName, ms, ok := o.Registry.RoomOf(sid)
	if !ok {
		return false
	}
	room, ok := o.Rooms.Get(roomName)
	if !ok {
		return false
	}
	peer, ok := room.FindByUser(target)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Str("target", string(target)).Msg("relay target not in room")
		return false
	}

	from := o.resolve(ctx, ms.Identity().User)
	o.sendDirect(room, peer, protocol.Signal{Type: kind, From: from, Data: data})
	log.Debug().Str("module", "orch").Str("type", kind).Str("from", string(from.ID)).Str("to", string(target)).Msg("relayed")
	return true
}
