package net

import "encoding/json"

// Message types for the JSON protocol over WebSocket.

// Client → server.
const (
	MsgCreateGame   = "create_game"
	MsgJoinGame     = "join_game"
	MsgRejoinGame   = "rejoin_game"
	MsgSelectGods   = "select_gods"
	MsgRPSChoice    = "rps_choice"
	MsgRPSDecision  = "rps_decision"
	MsgGameAction   = "game_action"
	MsgSyncState    = "sync_state"
	MsgRequestState = "request_state"
	MsgListGames    = "list_games"
)

// Server → client. game_action, sync_state and request_state are relayed
// under their own names.
const (
	MsgGameCreated          = "game_created"
	MsgPlayerJoined         = "player_joined"
	MsgRejoined             = "rejoined"
	MsgOpponentSelected     = "opponent_selected"
	MsgRPSStart             = "rps_start"
	MsgRPSResult            = "rps_result"
	MsgGameStart            = "game_start"
	MsgGamesList            = "games_list"
	MsgPlayerDisconnected   = "player_disconnected"
	MsgOpponentDisconnected = "opponent_disconnected"
	MsgOpponentReconnected  = "opponent_reconnected"
	MsgSyncRejected         = "sync_rejected"
	MsgError                = "error"
)

// Rock-paper-scissors throws.
const (
	Rock     = "rock"
	Paper    = "paper"
	Scissors = "scissors"
)

// WinnerTie is the rps_result winner when both throws match.
const WinnerTie = "tie"

// Action is an advisory description of what a peer just did. Only the
// sync_state that follows it is authoritative.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "create_game", "join_game" and "rejoin_game"
	PlayerName string `json:"playerName,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	GameID     string `json:"gameId,omitempty"`

	// For "select_gods"
	Gods []string `json:"gods,omitempty"`

	// For "rps_choice" and "rps_decision"
	Choice  string `json:"choice,omitempty"`
	GoFirst *bool  `json:"goFirst,omitempty"`

	// For "game_action" and "sync_state"
	Action    *Action         `json:"action,omitempty"`
	GameState json.RawMessage `json:"gameState,omitempty"`
	// Epoch is the last epoch the sender was handed in sync_rejected.
	Epoch int64 `json:"epoch,omitempty"`
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	GameID    string `json:"gameId,omitempty"`
	IsHost    *bool  `json:"isHost,omitempty"`
	HostName  string `json:"hostName,omitempty"`
	GuestName string `json:"guestName,omitempty"`
	Status    string `json:"status,omitempty"`

	// For "opponent_selected"
	Ready *bool `json:"ready,omitempty"`

	// For "rps_result"
	HostChoice  string `json:"hostChoice,omitempty"`
	GuestChoice string `json:"guestChoice,omitempty"`
	Winner      string `json:"winner,omitempty"` // "host", "guest" or "tie"

	// For "game_start"
	HostGods    []string `json:"hostGods,omitempty"`
	GuestGods   []string `json:"guestGods,omitempty"`
	FirstPlayer string   `json:"firstPlayer,omitempty"`

	// Relayed payloads
	Action    *Action         `json:"action,omitempty"`
	GameState json.RawMessage `json:"gameState,omitempty"`

	// For "sync_rejected": the sender must replace its state with
	// GameState and tag later snapshots with Epoch.
	Epoch int64 `json:"epoch,omitempty"`

	// For "games_list"
	Games []GameSummary `json:"games,omitempty"`

	// For "player_disconnected" and relayed actions
	PlayerID string `json:"playerId,omitempty"`

	// For "error"
	Message string `json:"message,omitempty"`
}

// GameSummary is one entry of the open-lobby listing.
type GameSummary struct {
	ID        string `json:"id"`
	HostName  string `json:"hostName"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
}

// SnapshotHeader is the part of a relayed snapshot the relay inspects.
type SnapshotHeader struct {
	Seq    int64  `json:"seq"`
	Status string `json:"status"`
}

// ParseSnapshotHeader reads the seq and status of a raw snapshot.
func ParseSnapshotHeader(raw json.RawMessage) (SnapshotHeader, error) {
	var h SnapshotHeader
	err := json.Unmarshal(raw, &h)
	return h, err
}

// Bool returns a pointer for the optional boolean fields of the envelope.
func Bool(b bool) *bool { return &b }

func validThrow(s string) bool {
	return s == Rock || s == Paper || s == Scissors
}

// beats reports whether throw a wins against throw b.
func beats(a, b string) bool {
	return (a == Rock && b == Scissors) || (a == Scissors && b == Paper) || (a == Paper && b == Rock)
}
