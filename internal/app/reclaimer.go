package app

import (
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultGracePeriod = 300 * time.Second

// Timer is the part of *time.Timer the reclaimer needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

type pendingCheck struct {
	timer Timer
	gen   uint64
}

// Reclaimer removes rooms that stayed empty for the grace period.
// At most one check is pending per room; scheduling again restarts the window.
// The check itself goes through RoomManager.RemoveIfEmpty, so a room that was
// rejoined in the meantime survives without any cancellation.
type Reclaimer struct {
	rooms core.RoomManager
	grace time.Duration
	sched Scheduler

	mu      sync.Mutex
	gen     uint64
	pending map[domain.RoomName]pendingCheck
	stopped bool
}

func NewReclaimer(rooms core.RoomManager, grace time.Duration, sched Scheduler) *Reclaimer {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	if sched == nil {
		sched = RealScheduler
	}
	return &Reclaimer{
		rooms:   rooms,
		grace:   grace,
		sched:   sched,
		pending: make(map[domain.RoomName]pendingCheck),
	}
}

func (r *Reclaimer) Schedule(name domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if old, ok := r.pending[name]; ok {
		old.timer.Stop()
	}
	r.gen++
	gen := r.gen
	t := r.sched.AfterFunc(r.grace, func() { r.fire(name, gen) })
	r.pending[name] = pendingCheck{timer: t, gen: gen}
	log.Debug().Str("module", "app.reclaimer").Str("room", string(name)).Dur("grace", r.grace).Msg("reclamation scheduled")
}

func (r *Reclaimer) fire(name domain.RoomName, gen uint64) {
	r.mu.Lock()
	p, ok := r.pending[name]
	if !ok || p.gen != gen {
		r.mu.Unlock()
		return
	}
	delete(r.pending, name)
	r.mu.Unlock()

	r.rooms.RemoveIfEmpty(name)
}

// Pending reports how many rooms await a reclamation check.
func (r *Reclaimer) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Stop cancels every pending check. Used on shutdown.
func (r *Reclaimer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for name, p := range r.pending {
		p.timer.Stop()
		delete(r.pending, name)
	}
	log.Info().Str("module", "app.reclaimer").Msg("stopped")
}
