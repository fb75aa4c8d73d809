package app

import (
	"testing"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/stretchr/testify/assert"
)

const grace = 300 * time.Second

func newReclaimer() (core.RoomManager, *Reclaimer, *manualScheduler) {
	rooms := NewRoomManager(core.DefaultHistoryCapacity)
	sched := &manualScheduler{}
	return rooms, NewReclaimer(rooms, grace, sched), sched
}

func TestReclaimerRemovesRoomAfterGrace(t *testing.T) {
	rooms, r, sched := newReclaimer()
	rooms.GetOrCreate("r1")
	r.Schedule("r1")
	assert.Equal(t, 1, r.Pending())

	sched.Advance(grace - time.Second)
	_, ok := rooms.Get("r1")
	assert.True(t, ok, "still inside the grace window")

	sched.Advance(2 * time.Second)
	_, ok = rooms.Get("r1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Pending())
}

func TestReclaimerKeepsRejoinedRoom(t *testing.T) {
	rooms, r, sched := newReclaimer()
	rooms.GetOrCreate("r1")
	r.Schedule("r1")

	sched.Advance(10 * time.Second)
	rooms.Join("r1", session("s1", "u1", "r1"), nil)

	sched.Advance(grace)
	room, ok := rooms.Get("r1")
	assert.True(t, ok)
	assert.Equal(t, 1, room.MemberCount())
}

func TestReclaimerRescheduleRestartsWindow(t *testing.T) {
	rooms, r, sched := newReclaimer()
	rooms.GetOrCreate("r1")
	r.Schedule("r1")

	sched.Advance(grace - 10*time.Second)
	r.Schedule("r1")
	assert.Equal(t, 1, r.Pending())

	sched.Advance(20 * time.Second)
	_, ok := rooms.Get("r1")
	assert.True(t, ok, "first check was superseded")

	sched.Advance(grace)
	_, ok = rooms.Get("r1")
	assert.False(t, ok)
}

func TestReclaimerStop(t *testing.T) {
	rooms, r, sched := newReclaimer()
	rooms.GetOrCreate("r1")
	r.Schedule("r1")
	r.Stop()
	assert.Equal(t, 0, r.Pending())

	r.Schedule("r1")
	assert.Equal(t, 0, r.Pending(), "stopped reclaimer ignores new work")

	sched.Advance(2 * grace)
	_, ok := rooms.Get("r1")
	assert.True(t, ok)
}

func TestNewReclaimerDefaults(t *testing.T) {
	r := NewReclaimer(NewRoomManager(0), 0, nil)
	assert.Equal(t, DefaultGracePeriod, r.grace)
	assert.Equal(t, RealScheduler, r.sched)
}
