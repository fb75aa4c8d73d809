package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

type RoomManagerImpl struct {
	mu              sync.RWMutex
	rooms           map[domain.RoomName]core.RoomService
	historyCapacity int
}

func NewRoomManager(historyCapacity int) core.RoomManager {
	return &RoomManagerImpl{
		rooms:           make(map[domain.RoomName]core.RoomService),
		historyCapacity: historyCapacity,
	}
}

func (f *RoomManagerImpl) GetOrCreate(name domain.RoomName) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[name]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[name]; ok {
		return room
	}
	room = core.NewRoomService(&domain.Room{Name: name}, f.historyCapacity)
	f.rooms[name] = room
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Get(name domain.RoomName) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[name]
	return room, ok
}

// Join retries on a fresh room when it lost the race against RemoveIfEmpty.
func (f *RoomManagerImpl) Join(name domain.RoomName, ms core.MemberSession, greet core.Greeter) core.RoomService {
	for {
		room := f.GetOrCreate(name)
		if err := room.Admit(ms, greet); err == nil {
			return room
		}
		// a closed room is already out of the table
		log.Debug().Str("module", "app.rooms").Str("room", string(name)).Msg("join raced with reclamation, retrying")
	}
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for name, r := range f.rooms {
		out = append(out, core.RoomInfo{Name: name, MemberCount: r.MemberCount(), History: r.HistoryLen()})
	}
	f.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *RoomManagerImpl) RemoveIfEmpty(name domain.RoomName) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[name]
	if !ok {
		return false
	}
	if !room.CloseIfEmpty() {
		log.Debug().Str("module", "app.rooms").Str("room", string(name)).Msg("room rejoined, keeping it")
		return false
	}
	delete(f.rooms, name)
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room reclaimed")
	return true
}
