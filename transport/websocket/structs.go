package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/rocketscienceinc/bingo-backend/transport/view"
)

const (
	actionConnect  = "connect"
	actionGameNew  = "game:new"
	actionGameGet  = "game:get"
	actionGameMark = "game:mark"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *view.Game     `json:"game,omitempty"`

	// game:mark only
	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`
}

type ErrorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
