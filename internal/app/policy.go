package app

import (
	"errors"

	"github.com/dkeye/Lobby/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

type Policy interface {
	OnBackPressure(room core.RoomService, drop core.Drop) BackpressureAction
}

// SimplePolicy kicks members whose connection is gone and drops frames for
// members that are merely slow.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ core.RoomService, drop core.Drop) BackpressureAction {
	if errors.Is(drop.Err, core.ErrConnClosed) {
		return KickMember
	}
	return DropFrame
}
