package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/dkeye/Lobby/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Chat appends text to the sender's room history and fans it out to every
// member, the sender included. The sender's name is looked up at send time.
// Empty text and unbound sessions are dropped without a reply.
func (o *Orchestrator) Chat(ctx context.Context, sid core.SessionID, text string) (domain.Message, bool) {
	roomName, ms, ok := o.Registry.RoomOf(sid)
	if !ok {
		return domain.Message{}, false
	}
	room, ok := o.Rooms.Get(roomName)
	if !ok {
		return domain.Message{}, false
	}

	sender := o.resolve(ctx, ms.Identity().User)
	msg, err := domain.NewMessage(sender, text, o.now())
	if err != nil {
		return domain.Message{}, false
	}
	frame, ok := encode(protocol.NewChat(msg))
	if !ok {
		return domain.Message{}, false
	}

	res, err := room.Publish(msg, frame)
	if errors.Is(err, core.ErrRoomClosed) {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Msg("chat into closed room dropped")
		return domain.Message{}, false
	}
	o.applyPolicy(room, res)
	return msg, true
}

// Rename persists a new display name for u and tells every room where u has
// a live session. Concurrent renames of one id are last-write-wins.
func (o *Orchestrator) Rename(ctx context.Context, u domain.User, raw string) (domain.User, error) {
	renamed := domain.User{ID: u.ID}
	if err := renamed.SetUsername(raw); err != nil {
		return domain.User{}, err
	}
	previous := o.resolve(ctx, u).Username
	if o.Names != nil {
		if err := o.Names.Set(ctx, u.ID, renamed.Username); err != nil {
			return domain.User{}, fmt.Errorf("store name: %w", err)
		}
	}
	log.Info().Str("module", "orch").Str("user", string(u.ID)).Str("previous", previous).Str("name", renamed.Username).Msg("renamed")

	seen := make(map[domain.RoomName]struct{})
	for _, ref := range o.Registry.SessionsOfUser(u.ID) {
		if _, dup := seen[ref.RoomName]; dup {
			continue
		}
		seen[ref.RoomName] = struct{}{}
		room, ok := o.Rooms.Get(ref.RoomName)
		if !ok {
			continue
		}
		ev := protocol.NewPresence(protocol.PresenceRename, renamed)
		ev.Previous = previous
		o.broadcast(room, "", ev)
		o.broadcastUsers(ctx, room)
	}
	return renamed, nil
}
