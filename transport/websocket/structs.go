package websocket

import (
	"encoding/json"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	PlayerID string `json:"player_id,omitempty"`
	RoomID   string `json:"room_id,omitempty"`
	RoomCode string `json:"room_code,omitempty"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Player   string `json:"player,omitempty"`
}

type ResponsePayload struct {
	Player *entity.Player    `json:"player,omitempty"`
	Room   *entity.Room      `json:"room,omitempty"`
	Game   *entity.GameState `json:"game,omitempty"`
	Error  string            `json:"error,omitempty"`
}
