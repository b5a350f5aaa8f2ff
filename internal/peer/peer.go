package peer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/game"
	"github.com/peterkuimelis/pantheon/internal/log"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
)

// Advisory action types carried in game_action.
const (
	ActionPlayCard = "play_card"
	ActionDiscard  = "discard_for_energy"
	ActionEndTurn  = "end_turn"
)

// ErrNoMatch is returned when acting before a match has started.
var ErrNoMatch = errors.New("no match in progress")

// Transport carries client messages to the relay.
type Transport interface {
	Send(msg pnet.ClientMessage) error
}

// Config configures a Peer.
type Config struct {
	Name       string
	SessionID  string
	Catalog    *game.Catalog
	Controller *game.TurnController
	Logger     *zap.Logger
	// Events receives the action history of every locally resolved step.
	Events log.EventLogger
	// OnMessage is called after each server message has been applied.
	OnMessage func(msg pnet.ServerMessage)
}

// Peer is one player's side of a match. It resolves its own actions with
// the TurnController, then ships the full resulting state to the other
// side. Incoming snapshots replace the local state only when newer.
type Peer struct {
	mu sync.Mutex

	name      string
	sessionID string
	out       Transport
	tc        *game.TurnController
	catalog   *game.Catalog
	logger    *zap.Logger
	events    log.EventLogger
	onMessage func(msg pnet.ServerMessage)

	gameID      string
	isHost      bool
	hostName    string
	guestName   string
	status      string
	firstPlayer string
	lastError   string
	replica     Replica
	epoch       int64
}

// New creates a peer that talks through out.
func New(cfg Config, out Transport) *Peer {
	p := &Peer{
		name:      cfg.Name,
		sessionID: cfg.SessionID,
		out:       out,
		tc:        cfg.Controller,
		catalog:   cfg.Catalog,
		logger:    cfg.Logger,
		events:    cfg.Events,
		onMessage: cfg.OnMessage,
	}
	if p.tc == nil {
		p.tc = game.NewTurnController(game.ControllerConfig{})
	}
	if p.catalog == nil {
		p.catalog = game.DefaultCatalog()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.events == nil {
		p.events = log.NewMemoryLogger()
	}
	return p
}

// Name is the player id of this peer.
func (p *Peer) Name() string { return p.name }

// Info describes the peer's seat in the lobby.
type Info struct {
	GameID      string
	IsHost      bool
	HostName    string
	GuestName   string
	Status      string
	FirstPlayer string
	LastError   string
}

// Info returns a copy of the peer's lobby information.
func (p *Peer) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Info{
		GameID:      p.gameID,
		IsHost:      p.isHost,
		HostName:    p.hostName,
		GuestName:   p.guestName,
		Status:      p.status,
		FirstPlayer: p.firstPlayer,
		LastError:   p.lastError,
	}
}

// State returns the local snapshot as this player may see it.
func (p *Peer) State() *game.GameState {
	p.mu.Lock()
	defer p.mu.Unlock()
	gs := p.replica.State()
	if gs == nil {
		return nil
	}
	return gs.ViewFor(p.name)
}

// Seq returns the sequence number of the local snapshot.
func (p *Peer) Seq() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.replica.Seq()
}

// --- Lobby requests ---

func (p *Peer) CreateGame() error {
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgCreateGame, PlayerName: p.name, SessionID: p.sessionID})
}

func (p *Peer) JoinGame(code string) error {
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgJoinGame, GameID: code, PlayerName: p.name, SessionID: p.sessionID})
}

func (p *Peer) RejoinGame(code string) error {
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgRejoinGame, GameID: code, PlayerName: p.name, SessionID: p.sessionID})
}

func (p *Peer) ListGames() error {
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgListGames})
}

// SelectGods validates the team locally before sending it.
func (p *Peer) SelectGods(ids []string) error {
	if _, err := p.catalog.Team(ids); err != nil {
		return err
	}
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgSelectGods, Gods: ids})
}

func (p *Peer) ThrowRPS(choice string) error {
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgRPSChoice, Choice: choice})
}

func (p *Peer) DecideFirst(goFirst bool) error {
	return p.out.Send(pnet.ClientMessage{Type: pnet.MsgRPSDecision, GoFirst: pnet.Bool(goFirst)})
}

// --- Match actions ---

type playPayload struct {
	InstanceID int                 `json:"instanceId"`
	CardID     string              `json:"cardId,omitempty"`
	Targets    []game.TargetChoice `json:"targets,omitempty"`
}

type endTurnPayload struct {
	Pings []game.ZombiePing `json:"pings,omitempty"`
}

// PlayCard plays a card from this player's hand.
func (p *Peer) PlayCard(instanceID int, targets []game.TargetChoice) error {
	return p.act(ActionPlayCard, func(gs *game.GameState) (*game.GameState, []log.GameEvent, any, error) {
		var cardID string
		if pl := gs.Player(p.name); pl != nil {
			if c, _ := pl.HandCard(instanceID); c != nil {
				cardID = c.ID
			}
		}
		next, events, err := p.tc.PlayCard(gs, p.name, instanceID, targets)
		return next, events, playPayload{InstanceID: instanceID, CardID: cardID, Targets: targets}, err
	})
}

// DiscardForEnergy discards a card from hand to gain energy.
func (p *Peer) DiscardForEnergy(instanceID int) error {
	return p.act(ActionDiscard, func(gs *game.GameState) (*game.GameState, []log.GameEvent, any, error) {
		next, events, err := p.tc.DiscardForEnergy(gs, p.name, instanceID)
		return next, events, playPayload{InstanceID: instanceID}, err
	})
}

// EndTurn passes the turn, pinging with this player's zombies as given.
func (p *Peer) EndTurn(pings []game.ZombiePing) error {
	return p.act(ActionEndTurn, func(gs *game.GameState) (*game.GameState, []log.GameEvent, any, error) {
		next, events, err := p.tc.EndTurn(gs, p.name, pings)
		return next, events, endTurnPayload{Pings: pings}, err
	})
}

type stepFunc func(gs *game.GameState) (*game.GameState, []log.GameEvent, any, error)

// act resolves a local action and publishes the resulting snapshot. Rules
// violations are returned to the caller and nothing is sent.
func (p *Peer) act(kind string, fn stepFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	gs := p.replica.State()
	if gs == nil {
		return ErrNoMatch
	}
	next, events, payload, err := fn(gs)
	if err != nil {
		return err
	}
	next.Seq = gs.Seq + 1
	p.replica.Adopt(next)
	p.record(events)
	if next.Status == game.StatusFinished {
		p.status = string(pnet.MatchFinished)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := p.out.Send(pnet.ClientMessage{
		Type:   pnet.MsgGameAction,
		Action: &pnet.Action{Type: kind, Payload: raw},
	}); err != nil {
		return fmt.Errorf("send action: %w", err)
	}
	return p.publish(next)
}

func (p *Peer) publish(gs *game.GameState) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := p.out.Send(pnet.ClientMessage{Type: pnet.MsgSyncState, GameState: raw, Epoch: p.epoch}); err != nil {
		return fmt.Errorf("send snapshot: %w", err)
	}
	p.logger.Debug("published snapshot",
		zap.String("game", p.gameID),
		zap.Int64("seq", gs.Seq),
		zap.Int("turn", gs.TurnNumber))
	return nil
}

func (p *Peer) record(events []log.GameEvent) {
	for _, e := range events {
		p.events.Log(e)
	}
}

// --- Server messages ---

// Handle applies one message from the relay.
func (p *Peer) Handle(msg pnet.ServerMessage) error {
	err := p.handle(msg)
	if p.onMessage != nil {
		p.onMessage(msg)
	}
	return err
}

func (p *Peer) handle(msg pnet.ServerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch msg.Type {
	case pnet.MsgGameCreated:
		p.gameID = msg.GameID
		p.isHost = true
		p.hostName = p.name
		p.status = string(pnet.MatchWaiting)
		p.replica.Reset()
		p.epoch = 0

	case pnet.MsgPlayerJoined:
		p.gameID = msg.GameID
		p.hostName, p.guestName = msg.HostName, msg.GuestName
		p.isHost = msg.HostName == p.name
		p.status = msg.Status

	case pnet.MsgRejoined:
		p.gameID = msg.GameID
		p.isHost = msg.IsHost != nil && *msg.IsHost
		p.hostName, p.guestName = msg.HostName, msg.GuestName
		p.status = msg.Status
		p.epoch = 0
		if msg.Status == string(pnet.MatchPlaying) || msg.Status == string(pnet.MatchFinished) {
			// The relay replays its cached snapshot next; that is what the
			// opponent holds, so drop anything it never accepted.
			p.replica.Reset()
			if !p.isHost {
				return p.out.Send(pnet.ClientMessage{Type: pnet.MsgRequestState})
			}
		}

	case pnet.MsgRPSStart:
		p.status = string(pnet.MatchRPS)

	case pnet.MsgGameStart:
		return p.startMatch(msg)

	case pnet.MsgSyncState:
		return p.adopt(msg.GameState)

	case pnet.MsgRequestState:
		return p.republish()

	case pnet.MsgSyncRejected:
		return p.rollback(msg)

	case pnet.MsgGameAction:
		if msg.Action != nil {
			p.logger.Debug("opponent action",
				zap.String("player", msg.PlayerID),
				zap.String("action", msg.Action.Type))
		}

	case pnet.MsgPlayerDisconnected:
		p.status = "disconnected"
		p.logger.Info("opponent left the game", zap.String("player", msg.PlayerID))

	case pnet.MsgError:
		p.lastError = msg.Message
		p.logger.Warn("relay error", zap.String("message", msg.Message))
	}
	return nil
}

// startMatch builds the initial state on the host. The guest waits for the
// host's first snapshot.
func (p *Peer) startMatch(msg pnet.ServerMessage) error {
	p.hostName, p.guestName = msg.HostName, msg.GuestName
	p.firstPlayer = msg.FirstPlayer
	p.status = string(pnet.MatchPlaying)
	if msg.HostName != p.name {
		p.isHost = false
		return nil
	}
	p.isHost = true
	if p.replica.State() != nil {
		return nil
	}

	gs, events, err := p.tc.NewMatch(game.MatchSetup{
		ID:            msg.GameID,
		Host:          game.PlayerSetup{ID: msg.HostName, Gods: msg.HostGods},
		Guest:         game.PlayerSetup{ID: msg.GuestName, Gods: msg.GuestGods},
		FirstPlayerID: msg.FirstPlayer,
		Catalog:       p.catalog,
	})
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	gs.Seq = 1
	p.replica.Adopt(gs)
	p.record(events)
	p.logger.Info("match started",
		zap.String("game", msg.GameID),
		zap.String("first", msg.FirstPlayer))
	return p.publish(gs)
}

func (p *Peer) adopt(raw json.RawMessage) error {
	var gs game.GameState
	if err := json.Unmarshal(raw, &gs); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if !p.replica.Adopt(&gs) {
		p.logger.Debug("ignored stale snapshot",
			zap.Int64("seq", gs.Seq),
			zap.Int64("local", p.replica.Seq()))
		return nil
	}
	if gs.Status == game.StatusFinished {
		p.status = string(pnet.MatchFinished)
	}
	return nil
}

// rollback replaces the local state with the relay's after one of this
// peer's snapshots lost a race for the same seq.
func (p *Peer) rollback(msg pnet.ServerMessage) error {
	var gs game.GameState
	if err := json.Unmarshal(msg.GameState, &gs); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	p.logger.Warn("snapshot rejected, rolled back",
		zap.String("game", p.gameID),
		zap.Int64("local", p.replica.Seq()),
		zap.Int64("seq", gs.Seq))
	p.epoch = msg.Epoch
	p.replica.Replace(&gs)
	if gs.Status == game.StatusFinished {
		p.status = string(pnet.MatchFinished)
	} else {
		p.status = string(pnet.MatchPlaying)
	}
	return nil
}

// republish answers request_state. The host re-sends its state under a new
// seq so it supersedes whatever the relay has cached.
func (p *Peer) republish() error {
	gs := p.replica.State()
	if !p.isHost || gs == nil {
		return nil
	}
	next := gs.Clone()
	next.Seq = gs.Seq + 1
	p.replica.Adopt(next)
	return p.publish(next)
}
