package server

import "encoding/json"

// Event names, inbound and outbound. These are the wire contract with
// the client and must not change casually.
const (
	// inbound
	EvtJoinGame  = "join-game"
	EvtLeaveGame = "leave-game"
	EvtMove      = "move"
	EvtStop      = "stop"
	EvtMouseDown = "mouse-down"
	EvtMouseMove = "mouse-move"
	EvtMouseUp   = "mouse-up"
	EvtCollect   = "collect"
	EvtResetGame = "reset-game"

	// outbound
	EvtJoined        = "joined"
	EvtLeft          = "left"
	EvtJoinError     = "join-error"
	EvtPlayersUpdate = "players-update"
	EvtCoinsUpdate   = "coins-update"
	EvtGameOver      = "game-over"
	EvtGameReset     = "game-reset"
)

// Envelope is the wire frame in both directions, one JSON text frame
// per event. Example: {"type":"move","data":"up"}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Outbound event payloads.
type joinedPayload struct {
	GameID  string        `json:"gameId"`
	Players []PlayerState `json:"players"`
}

type joinErrorPayload struct {
	Message string `json:"message"`
}

type gameOverPayload struct {
	Winner   string `json:"winner"`
	WinnerID string `json:"winnerId"`
}

// encodeEvent wraps a payload in the {type,data} envelope. A nil
// payload produces an envelope with no data field (e.g. "left").
func encodeEvent(typ string, payload any) ([]byte, error) {
	env := Envelope{Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = b
	}
	return json.Marshal(env)
}
