package websocket

import (
	"encoding/json"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady    Event = "ready"
	EventActivity Event = "activity"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// ReadyResponse is sent once after the upgrade, carrying the recent backlog.
type ReadyResponse struct {
	Event  Event                 `json:"event"`
	Recent []model.ActivityEntry `json:"recent"`
}

// ActivityResponse forwards one activity entry as published on the feed.
// The entry is passed through verbatim.
type ActivityResponse struct {
	Event Event           `json:"event"`
	Entry json.RawMessage `json:"entry"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
