package core

import (
	"sort"
	"sync"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

type memberEntry struct {
	session MemberSession
	seq     uint64
}

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
//
// mu guards membership and history. pub orders everything the room fans out
// (admission greetings, broadcasts, chat publishes); only non-blocking
// TrySend calls happen under it.
type roomImpl struct {
	room *domain.Room

	pub sync.Mutex

	mu      sync.RWMutex
	bySID   map[SessionID]*memberEntry
	seq     uint64
	history *History
	closed  bool
}

func NewRoomService(room *domain.Room, historyCapacity int) RoomService {
	return &roomImpl{
		room:    room,
		bySID:   make(map[SessionID]*memberEntry),
		history: NewHistory(historyCapacity),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) Admit(ms MemberSession, greet Greeter) error {
	r.pub.Lock()
	defer r.pub.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRoomClosed
	}
	r.seq++
	r.bySID[ms.ID()] = &memberEntry{session: ms, seq: r.seq}
	history := r.history.Snapshot()
	count := len(r.bySID)
	r.mu.Unlock()

	log.Info().
		Str("module", "core.room").
		Str("room", string(r.room.Name)).
		Str("sid", string(ms.ID())).
		Str("user", string(ms.Identity().User.ID)).
		Int("members", count).
		Msg("member added")

	if greet != nil {
		greet(r, history)
	}
	return nil
}

func (r *roomImpl) RemoveMember(sid SessionID) (bool, int) {
	r.mu.Lock()
	_, ok := r.bySID[sid]
	delete(r.bySID, sid)
	remaining := len(r.bySID)
	r.mu.Unlock()

	if ok {
		log.Info().
			Str("module", "core.room").
			Str("room", string(r.room.Name)).
			Str("sid", string(sid)).
			Int("members", remaining).
			Msg("member removed")
	}
	return ok, remaining
}

func (r *roomImpl) FindByUser(uid domain.UserID) (MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *memberEntry
	for _, e := range r.bySID {
		if e.session.Identity().User.ID != uid {
			continue
		}
		// earliest session wins so repeated lookups are stable
		if found == nil || e.seq < found.seq {
			found = e
		}
	}
	if found == nil {
		return nil, false
	}
	return found.session, true
}

func (r *roomImpl) SessionsOf(uid domain.UserID) []MemberSession {
	var out []MemberSession
	for _, e := range r.snapshot() {
		if e.session.Identity().User.ID == uid {
			out = append(out, e.session)
		}
	}
	return out
}

// snapshot returns the members ordered by admission.
func (r *roomImpl) snapshot() []*memberEntry {
	r.mu.RLock()
	out := make([]*memberEntry, 0, len(r.bySID))
	for _, e := range r.bySID {
		out = append(out, e)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (r *roomImpl) Broadcast(exclude SessionID, data Frame) PublishResult {
	r.pub.Lock()
	defer r.pub.Unlock()
	res := r.deliver(r.snapshot(), exclude, data)
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Str("exclude", string(exclude)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) Publish(msg domain.Message, data Frame) (PublishResult, error) {
	r.pub.Lock()
	defer r.pub.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return PublishResult{}, ErrRoomClosed
	}
	if evicted := r.history.Append(msg); evicted {
		log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Msg("history full, oldest evicted")
	}
	r.mu.Unlock()

	res := r.deliver(r.snapshot(), "", data)
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Str("msg", msg.ID).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("publish result")
	return res, nil
}

func (r *roomImpl) deliver(members []*memberEntry, exclude SessionID, data Frame) PublishResult {
	res := PublishResult{}
	for _, e := range members {
		if exclude != "" && e.session.ID() == exclude {
			continue
		}
		if err := e.session.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, Drop{Session: e.session, Err: err})
			continue
		}
		res.SendTo++
	}
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	entries := r.snapshot()
	out := make([]MemberDTO, 0, len(entries))
	for _, e := range entries {
		u := e.session.Identity().User
		out = append(out, MemberDTO{ID: u.ID, Username: u.Username})
	}
	return out
}

func (r *roomImpl) History() []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history.Snapshot()
}

func (r *roomImpl) HistoryLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history.Len()
}

func (r *roomImpl) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bySID) > 0 {
		return false
	}
	r.closed = true
	return true
}
