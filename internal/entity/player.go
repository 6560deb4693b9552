package entity

// Player is the session-scoped record of one connected user: which room the
// session currently belongs to and which side of the board it plays.
type Player struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

func (that *Player) IsHost() bool {
	return that.Role == PlayerHost
}

func (that *Player) IsGuest() bool {
	return that.Role == PlayerGuest
}

// LeaveRoom - detaches the player from its current room.
func (that *Player) LeaveRoom() {
	that.RoomID = ""
	that.Role = ""
}
