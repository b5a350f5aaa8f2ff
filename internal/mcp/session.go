package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/game"
	"github.com/peterkuimelis/pantheon/internal/log"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
	"github.com/peterkuimelis/pantheon/internal/peer"
)

// InfoView is the seat's lobby information.
type InfoView struct {
	GameID      string `json:"game_id,omitempty"`
	You         string `json:"you"`
	IsHost      bool   `json:"is_host"`
	HostName    string `json:"host_name,omitempty"`
	GuestName   string `json:"guest_name,omitempty"`
	Status      string `json:"status,omitempty"`
	FirstPlayer string `json:"first_player,omitempty"`
}

// ToolResponse is the JSON response returned by every tool.
type ToolResponse struct {
	Info    InfoView           `json:"info"`
	Notices []string           `json:"notices"`
	Events  []EventView        `json:"events"`
	State   *StateView         `json:"state,omitempty"`
	Games   []pnet.GameSummary `json:"games,omitempty"`
}

// Session is one AI seat connected to the relay.
type Session struct {
	peer   *peer.Peer
	client *peer.Client
	events *log.MemoryLogger
	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.Mutex
	notices    []string
	seenEvents int
	games      []pnet.GameSummary
	gamesSeq   int
	rpsRounds  int
	changed    chan struct{}
}

// SessionConfig configures a Session.
type SessionConfig struct {
	RelayURL string
	Name     string
	Catalog  *game.Catalog
	MaxTurns int
	Logger   *zap.Logger
}

// NewSession dials the relay and starts reading from it. The connection
// lives until Close, independent of the tool call that opened it.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := peer.Dial(ctx, cfg.RelayURL, logger)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		client:  client,
		events:  log.NewMemoryLogger(),
		cancel:  cancel,
		done:    make(chan struct{}),
		changed: make(chan struct{}),
	}
	s.peer = peer.New(peer.Config{
		Name:       name,
		SessionID:  uuid.NewString(),
		Catalog:    cfg.Catalog,
		Controller: game.NewTurnController(game.ControllerConfig{MaxTurns: cfg.MaxTurns}),
		Logger:     logger,
		Events:     s.events,
		OnMessage:  s.onMessage,
	}, client)

	go func() {
		defer close(s.done)
		if err := client.Run(runCtx, s.peer.Handle); err != nil {
			logger.Warn("relay connection ended", zap.Error(err))
			s.notify(fmt.Sprintf("Connection lost: %v", err))
		}
	}()
	return s, nil
}

// Close drops the relay connection.
func (s *Session) Close() {
	s.cancel()
	_ = s.client.Close()
	<-s.done
}

func (s *Session) onMessage(msg pnet.ServerMessage) {
	s.mu.Lock()
	switch msg.Type {
	case pnet.MsgGamesList:
		s.games = msg.Games
		s.gamesSeq++
	case pnet.MsgRPSResult:
		s.rpsRounds++
	}
	s.mu.Unlock()

	if text := describe(msg, s.peer.Name()); text != "" {
		s.notify(text)
		return
	}
	s.signal()
}

func (s *Session) notify(text string) {
	s.mu.Lock()
	s.notices = append(s.notices, text)
	s.mu.Unlock()
	s.signal()
}

// signal wakes every waiter.
func (s *Session) signal() {
	s.mu.Lock()
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// waitFor blocks until cond holds, the timeout elapses or ctx ends. It
// reports whether cond held.
func (s *Session) waitFor(ctx context.Context, timeout time.Duration, cond func() bool) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		s.mu.Lock()
		ch := s.changed
		s.mu.Unlock()
		if cond() {
			return true
		}
		select {
		case <-ch:
		case <-timer.C:
			return cond()
		case <-ctx.Done():
			return false
		case <-s.done:
			return cond()
		}
	}
}

func (s *Session) counters() (games, rps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamesSeq, s.rpsRounds
}

// response collects everything new since the last response.
func (s *Session) response() *ToolResponse {
	info := s.peer.Info()
	resp := &ToolResponse{
		Info: InfoView{
			GameID:      info.GameID,
			You:         s.peer.Name(),
			IsHost:      info.IsHost,
			HostName:    info.HostName,
			GuestName:   info.GuestName,
			Status:      info.Status,
			FirstPlayer: info.FirstPlayer,
		},
		Notices: []string{},
		Events:  []EventView{},
	}

	s.mu.Lock()
	resp.Notices = append(resp.Notices, s.notices...)
	s.notices = nil
	all := s.events.Events()
	for _, e := range all[min(s.seenEvents, len(all)):] {
		resp.Events = append(resp.Events, eventView(e))
	}
	s.seenEvents = len(all)
	s.mu.Unlock()

	if gs := s.peer.State(); gs != nil {
		resp.State = BuildStateView(gs, s.peer.Name())
	}
	return resp
}

func (s *Session) isMyTurn() bool {
	gs := s.peer.State()
	if gs == nil {
		return false
	}
	return gs.Over() || gs.CurrentPlayerID == s.peer.Name()
}

// describe turns a relay message into a one-line notice for the agent.
func describe(msg pnet.ServerMessage, me string) string {
	switch msg.Type {
	case pnet.MsgGameCreated:
		return fmt.Sprintf("Match %s created. Share the code with your opponent.", msg.GameID)
	case pnet.MsgPlayerJoined:
		return fmt.Sprintf("%s joined %s's match. Select your gods.", msg.GuestName, msg.HostName)
	case pnet.MsgRejoined:
		return fmt.Sprintf("Rejoined match %s (%s).", msg.GameID, msg.Status)
	case pnet.MsgOpponentSelected:
		return "Opponent has selected their gods."
	case pnet.MsgRPSStart:
		return "Both teams locked in. Throw rock, paper or scissors."
	case pnet.MsgRPSResult:
		if msg.Winner == pnet.WinnerTie {
			return fmt.Sprintf("Tie (%s vs %s). Throw again.", msg.HostChoice, msg.GuestChoice)
		}
		return fmt.Sprintf("Host threw %s, guest threw %s. %s wins and decides who goes first.",
			msg.HostChoice, msg.GuestChoice, msg.Winner)
	case pnet.MsgGameStart:
		if msg.FirstPlayer == me {
			return "Match started. You go first."
		}
		return fmt.Sprintf("Match started. %s goes first.", msg.FirstPlayer)
	case pnet.MsgGameAction:
		if msg.Action != nil && msg.PlayerID != me {
			return fmt.Sprintf("%s: %s", msg.PlayerID, msg.Action.Type)
		}
	case pnet.MsgOpponentDisconnected:
		return "Opponent disconnected. They have a short window to rejoin."
	case pnet.MsgOpponentReconnected:
		return "Opponent reconnected."
	case pnet.MsgPlayerDisconnected:
		return fmt.Sprintf("%s left. The match is over.", msg.PlayerID)
	case pnet.MsgSyncRejected:
		return "Your last move crossed with your opponent's and was undone. Check the state again."
	case pnet.MsgError:
		return "Error: " + msg.Message
	}
	return ""
}

// handIndex maps a 1-based hand position to a card instance id.
func (s *Session) handIndex(index int) (int, error) {
	gs := s.peer.State()
	if gs == nil {
		return 0, peer.ErrNoMatch
	}
	hand := gs.Player(s.peer.Name()).Hand
	if index < 1 || index > len(hand) {
		return 0, fmt.Errorf("hand_index %d out of range, must be 1-%d", index, len(hand))
	}
	return hand[index-1].InstanceID, nil
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
