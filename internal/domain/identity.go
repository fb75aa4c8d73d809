package domain

// Identity is a verified participant bound to one room.
// It is produced by the credential verifier and never parsed by the core.
type Identity struct {
	User User
	Room RoomName
}

func NewIdentity(id UserID, username string, room RoomName) Identity {
	return Identity{User: User{ID: id, Username: username}, Room: room}
}
