package domain

import (
	"regexp"
	"strings"
)

const (
	DefaultRoom    RoomName = "lobby"
	MaxRoomNameLen          = 36
)

type RoomName string

type Room struct {
	Name RoomName
}

var roomNameStrip = regexp.MustCompile(`[^\w-]+`)

// SanitizeRoomName lowercases raw, keeps word characters and dashes and
// falls back to DefaultRoom when nothing is left.
func SanitizeRoomName(raw string) RoomName {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = roomNameStrip.ReplaceAllString(s, "")
	if len(s) > MaxRoomNameLen {
		s = s[:MaxRoomNameLen]
	}
	if s == "" {
		return DefaultRoom
	}
	return RoomName(s)
}
