package net

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/game"
)

// GraceWindow is how long a seat may stay detached before the match is
// torn down.
const GraceWindow = 30 * time.Second

// maxCodeAttempts bounds retries on match code collisions.
const maxCodeAttempts = 16

// Sender delivers a message to one connected peer. Send is called with
// the coordinator lock held and must not block on the network.
type Sender interface {
	Send(msg ServerMessage) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg ServerMessage) error

func (f SenderFunc) Send(msg ServerMessage) error { return f(msg) }

// Conn is one transport connection as seen by the coordinator.
type Conn struct {
	ID      string
	sender  Sender
	matchID string
	role    Role
}

// MatchID returns the match the connection is seated in, if any.
func (c *Conn) MatchID() string { return c.matchID }

// Coordinator is the relay between the two peers of every match. It owns
// the lobby handshake and forwards actions and snapshots; it never runs
// game rules.
type Coordinator struct {
	mu      sync.Mutex
	store   MatchStore
	clock   clockwork.Clock
	logger  *zap.Logger
	catalog *game.Catalog
	newCode func() string
	grace   time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithStore replaces the in-memory match store.
func WithStore(s MatchStore) Option { return func(c *Coordinator) { c.store = s } }

// WithClock injects the clock used for grace timers and timestamps.
func WithClock(clock clockwork.Clock) Option { return func(c *Coordinator) { c.clock = clock } }

// WithCatalog sets the catalog god selections are validated against.
func WithCatalog(cat *game.Catalog) Option { return func(c *Coordinator) { c.catalog = cat } }

// WithCodeGenerator replaces the random match code source.
func WithCodeGenerator(f func() string) Option { return func(c *Coordinator) { c.newCode = f } }

// WithGraceWindow shortens or lengthens the reconnect window.
func WithGraceWindow(d time.Duration) Option { return func(c *Coordinator) { c.grace = d } }

// NewCoordinator creates a relay.
func NewCoordinator(logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   NewMemoryStore(),
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		catalog: game.DefaultCatalog(),
		newCode: NewCode,
		grace:   GraceWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Connect registers a new transport connection.
func (c *Coordinator) Connect(s Sender) *Conn {
	conn := &Conn{ID: uuid.NewString(), sender: s}
	c.logger.Debug("connection opened", zap.String("conn", conn.ID))
	return conn
}

// Handle processes one client message to completion.
func (c *Coordinator) Handle(conn *Conn, msg ClientMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Type {
	case MsgCreateGame:
		c.createGame(conn, msg)
	case MsgJoinGame:
		c.joinGame(conn, msg)
	case MsgRejoinGame:
		c.rejoinGame(conn, msg)
	case MsgSelectGods:
		c.selectGods(conn, msg)
	case MsgRPSChoice:
		c.rpsChoice(conn, msg)
	case MsgRPSDecision:
		c.rpsDecision(conn, msg)
	case MsgGameAction:
		c.gameAction(conn, msg)
	case MsgSyncState:
		c.syncState(conn, msg)
	case MsgRequestState:
		c.requestState(conn)
	case MsgListGames:
		c.send(conn, ServerMessage{Type: MsgGamesList, Games: c.openGames()})
	default:
		c.fail(conn, "Unknown message type: "+msg.Type)
	}
}

// Disconnect detaches the connection from its seat and starts the grace
// window. A seat that is not reclaimed in time ends the match.
func (c *Coordinator) Disconnect(conn *Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, seat := c.seatOf(conn)
	if seat == nil {
		return
	}
	role := conn.role
	conn.matchID = ""
	seat.conn = nil
	seat.gen++
	gen := seat.gen
	seat.stopGrace()
	seat.grace = c.clock.AfterFunc(c.grace, func() { c.expire(m.ID, role, gen) })

	c.logger.Info("player detached",
		zap.String("game", m.ID),
		zap.String("player", seat.Name),
		zap.Duration("grace", c.grace))

	if other := m.Seat(role.Other()); other.Connected() {
		c.send(other.conn, ServerMessage{
			Type:     MsgOpponentDisconnected,
			GameID:   m.ID,
			PlayerID: seat.Name,
			IsHost:   Bool(role == RoleHost),
		})
	}
}

// Games lists the matches waiting for a guest.
func (c *Coordinator) Games() []GameSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openGames()
}

// ReapStale deletes waiting matches older than waitingTTL and finished
// matches idle for longer than finishedTTL. It returns how many were
// removed.
func (c *Coordinator) ReapStale(waitingTTL, finishedTTL time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	reaped := 0
	for _, m := range c.store.List() {
		switch {
		case m.Status == MatchWaiting && now.Sub(m.CreatedAt) > waitingTTL:
		case m.Status == MatchFinished && now.Sub(m.UpdatedAt) > finishedTTL:
		default:
			continue
		}
		c.teardown(m)
		reaped++
		c.logger.Info("reaped stale game", zap.String("game", m.ID), zap.String("status", string(m.Status)))
	}
	return reaped
}

func (c *Coordinator) expire(matchID string, role Role, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.store.Get(matchID)
	if !ok {
		return
	}
	seat := m.Seat(role)
	if seat == nil || seat.gen != gen || seat.conn != nil {
		return
	}
	seat.grace = nil

	c.logger.Info("grace window expired",
		zap.String("game", m.ID),
		zap.String("player", seat.Name))

	if other := m.Seat(role.Other()); other.Connected() {
		c.send(other.conn, ServerMessage{
			Type:     MsgPlayerDisconnected,
			GameID:   m.ID,
			PlayerID: seat.Name,
			IsHost:   Bool(role == RoleHost),
		})
	}
	c.teardown(m)
}

func (c *Coordinator) teardown(m *Match) {
	for _, seat := range []*Seat{m.Host, m.Guest} {
		if seat == nil {
			continue
		}
		seat.stopGrace()
		seat.gen++
		if seat.conn != nil {
			seat.conn.matchID = ""
			seat.conn = nil
		}
	}
	c.store.Delete(m.ID)
}

func (c *Coordinator) createGame(conn *Conn, msg ClientMessage) {
	if conn.matchID != "" {
		c.fail(conn, "Already in a game")
		return
	}
	name := strings.TrimSpace(msg.PlayerName)
	if name == "" {
		c.fail(conn, "Player name is required")
		return
	}

	now := c.clock.Now()
	m := &Match{
		Status:    MatchWaiting,
		Host:      &Seat{Name: name, SessionID: msg.SessionID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	var err error
	for range maxCodeAttempts {
		m.ID = c.newCode()
		if err = c.store.Create(m); !errors.Is(err, ErrMatchExists) {
			break
		}
	}
	if err != nil {
		c.logger.Error("create game", zap.Error(err))
		c.fail(conn, "Could not create game")
		return
	}
	c.attach(conn, m, RoleHost)

	c.logger.Info("game created", zap.String("game", m.ID), zap.String("host", name))
	c.send(conn, ServerMessage{Type: MsgGameCreated, GameID: m.ID, IsHost: Bool(true)})
}

func (c *Coordinator) joinGame(conn *Conn, msg ClientMessage) {
	if conn.matchID != "" {
		c.fail(conn, "Already in a game")
		return
	}
	m, ok := c.store.Get(NormalizeCode(msg.GameID))
	if !ok {
		c.fail(conn, "Game not found")
		return
	}
	if m.Guest != nil {
		c.fail(conn, "Game is full")
		return
	}
	if m.Status != MatchWaiting {
		c.fail(conn, "Game already started")
		return
	}
	name := strings.TrimSpace(msg.PlayerName)
	if name == "" {
		c.fail(conn, "Player name is required")
		return
	}
	if name == m.Host.Name {
		c.fail(conn, "Name already taken in this game")
		return
	}

	m.Guest = &Seat{Name: name, SessionID: msg.SessionID}
	c.attach(conn, m, RoleGuest)
	c.setStatus(m, MatchSelecting)

	c.logger.Info("player joined", zap.String("game", m.ID), zap.String("guest", name))
	c.broadcast(m, ServerMessage{
		Type:      MsgPlayerJoined,
		GameID:    m.ID,
		HostName:  m.Host.Name,
		GuestName: m.Guest.Name,
		Status:    string(m.Status),
	})
}

func (c *Coordinator) rejoinGame(conn *Conn, msg ClientMessage) {
	m, ok := c.store.Get(NormalizeCode(msg.GameID))
	if !ok {
		c.fail(conn, "Game not found")
		return
	}
	name := strings.TrimSpace(msg.PlayerName)
	var role Role
	switch {
	case m.Host.Name == name:
		role = RoleHost
	case m.Guest != nil && m.Guest.Name == name:
		role = RoleGuest
	default:
		c.fail(conn, "Not a player in this game")
		return
	}
	seat := m.Seat(role)
	if seat.SessionID != "" && seat.SessionID != msg.SessionID {
		c.fail(conn, "Session does not match")
		return
	}
	if conn.matchID != "" && (conn.matchID != m.ID || conn.role != role) {
		c.fail(conn, "Already in a game")
		return
	}

	if old := seat.conn; old != nil && old != conn {
		old.matchID = ""
	}
	seat.stopGrace()
	c.attach(conn, m, role)

	c.logger.Info("player rejoined", zap.String("game", m.ID), zap.String("player", name))
	c.send(conn, ServerMessage{
		Type:      MsgRejoined,
		GameID:    m.ID,
		IsHost:    Bool(role == RoleHost),
		HostName:  m.Host.Name,
		GuestName: guestName(m),
		Status:    string(m.Status),
	})
	if len(m.Snapshot) > 0 {
		c.send(conn, ServerMessage{Type: MsgSyncState, GameID: m.ID, GameState: m.Snapshot})
	}
	if other := m.Seat(role.Other()); other.Connected() {
		c.send(other.conn, ServerMessage{
			Type:     MsgOpponentReconnected,
			GameID:   m.ID,
			PlayerID: name,
			IsHost:   Bool(role == RoleHost),
		})
	}
}

func (c *Coordinator) selectGods(conn *Conn, msg ClientMessage) {
	m, seat, ok := c.seated(conn, MatchSelecting)
	if !ok {
		return
	}
	if _, err := c.catalog.Team(msg.Gods); err != nil {
		c.fail(conn, err.Error())
		return
	}
	seat.Gods = append([]string(nil), msg.Gods...)
	c.touch(m)

	if other := m.Seat(conn.role.Other()); other.Connected() {
		c.send(other.conn, ServerMessage{Type: MsgOpponentSelected, GameID: m.ID, Ready: Bool(true)})
	}
	if len(m.Host.Gods) > 0 && len(m.Guest.Gods) > 0 {
		c.setStatus(m, MatchRPS)
		c.broadcast(m, ServerMessage{Type: MsgRPSStart, GameID: m.ID, Status: string(m.Status)})
	}
}

func (c *Coordinator) rpsChoice(conn *Conn, msg ClientMessage) {
	m, seat, ok := c.seated(conn, MatchRPS)
	if !ok {
		return
	}
	if m.RPSWinner != "" {
		c.fail(conn, "Waiting for the winner to decide")
		return
	}
	choice := strings.ToLower(strings.TrimSpace(msg.Choice))
	if !validThrow(choice) {
		c.fail(conn, "Choice must be rock, paper or scissors")
		return
	}
	seat.Throw = choice
	if m.Host.Throw == "" || m.Guest.Throw == "" {
		return
	}

	res := ServerMessage{
		Type:        MsgRPSResult,
		GameID:      m.ID,
		HostChoice:  m.Host.Throw,
		GuestChoice: m.Guest.Throw,
	}
	switch {
	case m.Host.Throw == m.Guest.Throw:
		res.Winner = WinnerTie
	case beats(m.Host.Throw, m.Guest.Throw):
		m.RPSWinner = RoleHost
		res.Winner = string(RoleHost)
	default:
		m.RPSWinner = RoleGuest
		res.Winner = string(RoleGuest)
	}
	m.Host.Throw, m.Guest.Throw = "", ""
	c.touch(m)
	c.broadcast(m, res)
}

func (c *Coordinator) rpsDecision(conn *Conn, msg ClientMessage) {
	m, seat, ok := c.seated(conn, MatchRPS)
	if !ok {
		return
	}
	if m.RPSWinner != conn.role {
		c.fail(conn, "Only the winner decides who goes first")
		return
	}
	if msg.GoFirst == nil {
		c.fail(conn, "goFirst is required")
		return
	}
	first := seat.Name
	if !*msg.GoFirst {
		first = m.Seat(conn.role.Other()).Name
	}
	m.FirstPlayer = first
	c.setStatus(m, MatchPlaying)

	c.logger.Info("game started", zap.String("game", m.ID), zap.String("first", first))
	c.broadcast(m, ServerMessage{
		Type:        MsgGameStart,
		GameID:      m.ID,
		HostName:    m.Host.Name,
		GuestName:   m.Guest.Name,
		HostGods:    m.Host.Gods,
		GuestGods:   m.Guest.Gods,
		FirstPlayer: first,
		Status:      string(m.Status),
	})
}

func (c *Coordinator) gameAction(conn *Conn, msg ClientMessage) {
	m, seat, ok := c.seated(conn, MatchPlaying)
	if !ok {
		return
	}
	if msg.Action == nil {
		c.fail(conn, "action is required")
		return
	}
	c.touch(m)
	c.relay(m, conn.role, ServerMessage{
		Type:     MsgGameAction,
		GameID:   m.ID,
		Action:   msg.Action,
		PlayerID: seat.Name,
	})
}

func (c *Coordinator) syncState(conn *Conn, msg ClientMessage) {
	m, seat, ok := c.seated(conn, MatchPlaying, MatchFinished)
	if !ok {
		return
	}
	h, err := ParseSnapshotHeader(msg.GameState)
	if err != nil {
		c.fail(conn, "gameState is not a snapshot")
		return
	}
	if msg.Epoch != seat.epoch {
		// Built on a state the relay already rolled this sender back from.
		c.logger.Debug("dropped snapshot from old epoch",
			zap.String("game", m.ID),
			zap.Int64("seq", h.Seq),
			zap.Int64("epoch", msg.Epoch))
		return
	}
	if h.Seq <= m.SnapshotSeq {
		c.rejectSnapshot(conn, m, seat, h.Seq)
		return
	}
	m.Snapshot = append(m.Snapshot[:0:0], msg.GameState...)
	m.SnapshotSeq = h.Seq
	if h.Status == string(game.StatusFinished) && m.Status != MatchFinished {
		c.setStatus(m, MatchFinished)
		c.logger.Info("game finished", zap.String("game", m.ID))
	} else {
		c.touch(m)
	}
	c.relay(m, conn.role, ServerMessage{Type: MsgSyncState, GameID: m.ID, GameState: m.Snapshot})
}

// rejectSnapshot rolls the sender back to the cached snapshot. The other
// seat already holds that state, so both sides converge on it.
func (c *Coordinator) rejectSnapshot(conn *Conn, m *Match, seat *Seat, seq int64) {
	if len(m.Snapshot) == 0 {
		c.fail(conn, "Snapshot is out of date")
		return
	}
	seat.epoch++
	c.logger.Info("rejected stale snapshot",
		zap.String("game", m.ID),
		zap.String("player", seat.Name),
		zap.Int64("seq", seq),
		zap.Int64("latest", m.SnapshotSeq))
	c.send(conn, ServerMessage{
		Type:      MsgSyncRejected,
		GameID:    m.ID,
		GameState: m.Snapshot,
		Epoch:     seat.epoch,
	})
}

func (c *Coordinator) requestState(conn *Conn) {
	m, seat, ok := c.seated(conn, MatchPlaying, MatchFinished)
	if !ok {
		return
	}
	if len(m.Snapshot) > 0 {
		c.send(conn, ServerMessage{Type: MsgSyncState, GameID: m.ID, GameState: m.Snapshot})
	}
	c.relay(m, conn.role, ServerMessage{Type: MsgRequestState, GameID: m.ID, PlayerID: seat.Name})
}

// seated resolves the caller's match and seat and checks the match is in
// one of the allowed states, reporting a protocol error otherwise.
func (c *Coordinator) seated(conn *Conn, allowed ...MatchStatus) (*Match, *Seat, bool) {
	m, seat := c.seatOf(conn)
	if seat == nil {
		c.fail(conn, "Not in a game")
		return nil, nil, false
	}
	for _, s := range allowed {
		if m.Status == s {
			return m, seat, true
		}
	}
	c.fail(conn, "Not allowed while game is "+string(m.Status))
	return nil, nil, false
}

func (c *Coordinator) seatOf(conn *Conn) (*Match, *Seat) {
	if conn.matchID == "" {
		return nil, nil
	}
	m, ok := c.store.Get(conn.matchID)
	if !ok {
		conn.matchID = ""
		return nil, nil
	}
	seat := m.Seat(conn.role)
	if seat == nil || seat.conn != conn {
		return nil, nil
	}
	return m, seat
}

func (c *Coordinator) attach(conn *Conn, m *Match, role Role) {
	seat := m.Seat(role)
	seat.conn = conn
	seat.gen++
	seat.epoch = 0
	conn.matchID = m.ID
	conn.role = role
}

func (c *Coordinator) openGames() []GameSummary {
	games := []GameSummary{}
	for _, m := range c.store.List() {
		if m.Status == MatchWaiting {
			games = append(games, m.Summary())
		}
	}
	return games
}

func (c *Coordinator) setStatus(m *Match, s MatchStatus) {
	m.Status = s
	c.touch(m)
}

func (c *Coordinator) touch(m *Match) {
	m.UpdatedAt = c.clock.Now()
}

func (c *Coordinator) relay(m *Match, from Role, msg ServerMessage) {
	if other := m.Seat(from.Other()); other.Connected() {
		c.send(other.conn, msg)
	}
}

func (c *Coordinator) broadcast(m *Match, msg ServerMessage) {
	for _, seat := range []*Seat{m.Host, m.Guest} {
		if seat.Connected() {
			c.send(seat.conn, msg)
		}
	}
}

func (c *Coordinator) fail(conn *Conn, message string) {
	c.send(conn, ServerMessage{Type: MsgError, Message: message})
}

func (c *Coordinator) send(conn *Conn, msg ServerMessage) {
	if err := conn.sender.Send(msg); err != nil {
		c.logger.Warn("send failed",
			zap.String("conn", conn.ID),
			zap.String("type", msg.Type),
			zap.Error(err))
	}
}

func guestName(m *Match) string {
	if m.Guest == nil {
		return ""
	}
	return m.Guest.Name
}
