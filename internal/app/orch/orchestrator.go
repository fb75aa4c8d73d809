package orch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/dkeye/Lobby/internal/names"
	"github.com/rs/zerolog/log"
)

// Orchestrator drives session lifecycles against the room table.
// Construct it once and share it between all connection handlers.
type Orchestrator struct {
	Registry  *app.Registry
	Rooms     core.RoomManager
	Policy    app.Policy
	Reclaimer *app.Reclaimer
	Names     names.Store
	Now       func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) resolve(ctx context.Context, u domain.User) domain.User {
	return names.Resolve(ctx, o.Names, u)
}

func encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode frame")
		return nil, false
	}
	return b, true
}

// sendDirect delivers v to one session only.
func (o *Orchestrator) sendDirect(room core.RoomService, ms core.MemberSession, v any) {
	frame, ok := encode(v)
	if !ok {
		return
	}
	if err := ms.Signal().TrySend(frame); err != nil {
		o.applyPolicy(room, core.PublishResult{Dropped: []core.Drop{{Session: ms, Err: err}}})
	}
}

func (o *Orchestrator) broadcast(room core.RoomService, exclude core.SessionID, v any) {
	frame, ok := encode(v)
	if !ok {
		return
	}
	o.applyPolicy(room, room.Broadcast(exclude, frame))
}

// applyPolicy never reports anything back to the sender of the frame.
func (o *Orchestrator) applyPolicy(room core.RoomService, res core.PublishResult) {
	for _, drop := range res.Dropped {
		sid := drop.Session.ID()
		log.Debug().Err(drop.Err).Str("module", "orch").Str("sid", string(sid)).Msg("delivery dropped")
		if o.Policy == nil {
			continue
		}
		switch o.Policy.OnBackPressure(room, drop) {
		case app.KickMember:
			o.Registry.Cancel(sid)
		case app.DropFrame, app.NoAction:
		}
	}
}

// Shutdown cancels every live session and every pending room reclamation.
func (o *Orchestrator) Shutdown() {
	log.Info().Str("module", "orch").Int("sessions", o.Registry.Count()).Msg("shutting down sessions")
	if o.Reclaimer != nil {
		o.Reclaimer.Stop()
	}
	o.Registry.CancelAll()
}
