package entity

import "time"

// Room is the shared document both players read and write. It is the only
// mutable state a match has; every update replaces the whole document and
// bumps Version so concurrent writers can be detected.
type Room struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	HostID    string     `json:"host_id"`
	GuestID   string     `json:"guest_id,omitempty"`
	Status    string     `json:"status"`
	Game      *GameState `json:"game_state"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewRoom(id, code, hostID string, now time.Time) *Room {
	return &Room{
		ID:        id,
		Code:      code,
		HostID:    hostID,
		Status:    StatusWaiting,
		Game:      NewGameState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus - room status mirrors the embedded game status and the two are
// always written together.
func (that *Room) SetStatus(status string) {
	that.Status = status
	that.Game.Status = status
}

// IsOpen - a room is joinable only while it is still waiting for a guest.
func (that *Room) IsOpen() bool {
	return that.Status == StatusWaiting
}

func (that *Room) HasGuest() bool {
	return that.GuestID != ""
}

func (that *Room) Clone() *Room {
	cloned := *that

	if that.Game != nil {
		cloned.Game = that.Game.Clone()
	}

	return &cloned
}
