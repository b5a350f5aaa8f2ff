package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/game"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
	"github.com/peterkuimelis/pantheon/internal/peer"
)

// DefaultWait bounds how long a blocking tool waits on the opponent.
const DefaultWait = 2 * time.Minute

// Config configures Tools.
type Config struct {
	RelayURL string // ws://host/ws
	Catalog  *game.Catalog
	MaxTurns int
	Logger   *zap.Logger
	// Wait bounds the blocking tools. Zero means DefaultWait.
	Wait time.Duration
}

// Tools holds the single seat an MCP process plays with.
type Tools struct {
	relayURL string
	catalog  *game.Catalog
	maxTurns int
	logger   *zap.Logger
	wait     time.Duration

	mu     sync.Mutex
	active *Session
}

// NewTools creates the tool set.
func NewTools(cfg Config) *Tools {
	t := &Tools{
		relayURL: cfg.RelayURL,
		catalog:  cfg.Catalog,
		maxTurns: cfg.MaxTurns,
		logger:   cfg.Logger,
		wait:     cfg.Wait,
	}
	if t.catalog == nil {
		t.catalog = game.DefaultCatalog()
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	if t.wait <= 0 {
		t.wait = DefaultWait
	}
	return t
}

func (t *Tools) dial(ctx context.Context, name string) (*Session, error) {
	return NewSession(ctx, SessionConfig{
		RelayURL: t.relayURL,
		Name:     name,
		Catalog:  t.catalog,
		MaxTurns: t.maxTurns,
		Logger:   t.logger,
	})
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(listGodsTool(), t.handleListGods)
	s.AddTool(listMatchesTool(), t.handleListMatches)
	s.AddTool(createMatchTool(), t.handleCreateMatch)
	s.AddTool(joinMatchTool(), t.handleJoinMatch)
	s.AddTool(selectGodsTool(), t.handleSelectGods)
	s.AddTool(rpsChoiceTool(), t.handleRPSChoice)
	s.AddTool(rpsDecisionTool(), t.handleRPSDecision)
	s.AddTool(playCardTool(), t.handlePlayCard)
	s.AddTool(discardCardTool(), t.handleDiscardCard)
	s.AddTool(endTurnTool(), t.handleEndTurn)
	s.AddTool(waitForTurnTool(), t.handleWaitForTurn)
	s.AddTool(getStateTool(), t.handleGetState)
	s.AddTool(leaveMatchTool(), t.handleLeaveMatch)
}

// Close drops the active seat, if any.
func (t *Tools) Close() {
	t.mu.Lock()
	sess := t.active
	t.active = nil
	t.mu.Unlock()
	if sess != nil {
		sess.Close()
	}
}

func (t *Tools) session() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// --- Tool definitions ---

func listGodsTool() mcp.Tool {
	return mcp.NewTool("list_gods",
		mcp.WithDescription("List every god with its element, weakness, health and spells, plus the preset teams."),
	)
}

func listMatchesTool() mcp.Tool {
	return mcp.NewTool("list_matches",
		mcp.WithDescription("List matches on the relay that are waiting for a second player."),
	)
}

func createMatchTool() mcp.Tool {
	return mcp.NewTool("create_match",
		mcp.WithDescription("Host a new match. Returns the 6-character match code the opponent joins with."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Your player name")),
	)
}

func joinMatchTool() mcp.Tool {
	return mcp.NewTool("join_match",
		mcp.WithDescription("Join a waiting match by its code."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Your player name, distinct from the host's")),
		mcp.WithString("code", mcp.Required(), mcp.Description("Match code, e.g. 'K7QW2M'")),
	)
}

func selectGodsTool() mcp.Tool {
	return mcp.NewTool("select_gods",
		mcp.WithDescription("Lock in a team of exactly four distinct gods. Use list_gods to see the choices."),
		mcp.WithString("gods", mcp.Required(), mcp.Description("Space-separated god ids, e.g. 'ignis zephyra terran voltar'")),
	)
}

func rpsChoiceTool() mcp.Tool {
	return mcp.NewTool("rps_choice",
		mcp.WithDescription("Throw rock, paper or scissors to decide who picks the turn order. Blocks until the opponent throws."),
		mcp.WithString("choice", mcp.Required(), mcp.Description("rock, paper or scissors")),
	)
}

func rpsDecisionTool() mcp.Tool {
	return mcp.NewTool("rps_decision",
		mcp.WithDescription("As the rock-paper-scissors winner, choose whether you go first. Blocks until the first state arrives."),
		mcp.WithBoolean("go_first", mcp.Required(), mcp.Description("true to take the first turn")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. Costs energy; one card per turn."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("1-based position of the card in your hand")),
		mcp.WithString("targets", mcp.Description("Space-separated selector=god pairs, e.g. 'enemy_god=nyx' or 'any_god=bob:solara'")),
	)
}

func discardCardTool() mcp.Tool {
	return mcp.NewTool("discard_card",
		mcp.WithDescription("Discard a card from your hand to gain its energy. Once per turn."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("1-based position of the card in your hand")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn. Each of your zombies may ping one enemy god."),
		mcp.WithString("pings", mcp.Description("Space-separated zombie>target pairs, e.g. 'morrigan>ignis'")),
	)
}

func waitForTurnTool() mcp.Tool {
	return mcp.NewTool("wait_for_turn",
		mcp.WithDescription("Block until it is your turn or the match ends. Returns what the opponent did meanwhile."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current lobby info, match state and events since the last call. Read-only."),
	)
}

func leaveMatchTool() mcp.Tool {
	return mcp.NewTool("leave_match",
		mcp.WithDescription("Disconnect from the relay. The opponent is told once the rejoin window passes."),
	)
}

// --- Tool handlers ---

type godListing struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Element  string   `json:"element"`
	Weakness string   `json:"weakness"`
	Health   int      `json:"health"`
	Spells   []string `json:"spells"`
}

type teamListing struct {
	Name string   `json:"name"`
	Gods []string `json:"gods"`
}

func (t *Tools) handleListGods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out struct {
		Gods  []godListing  `json:"gods"`
		Teams []teamListing `json:"teams"`
	}
	for _, g := range t.catalog.Gods() {
		gl := godListing{ID: g.ID, Name: g.Name, Element: string(g.Element), Weakness: string(g.Weakness), Health: g.MaxHealth}
		for _, sp := range t.catalog.SpellsFor(g.ID) {
			gl.Spells = append(gl.Spells, sp.Name+": "+sp.Description)
		}
		out.Gods = append(out.Gods, gl)
	}
	for _, tm := range t.catalog.Teams() {
		out.Teams = append(out.Teams, teamListing{Name: tm.Name, Gods: tm.Gods})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to encode catalog: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *Tools) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		lobby, err := t.dial(ctx, "lobby")
		if err != nil {
			return mcp.NewToolResultErrorf("Failed to reach relay: %v", err), nil
		}
		defer lobby.Close()
		sess = lobby
	}

	before, _ := sess.counters()
	if err := sess.peer.ListGames(); err != nil {
		return mcp.NewToolResultErrorf("Failed to list matches: %v", err), nil
	}
	if !sess.waitFor(ctx, t.wait, func() bool { n, _ := sess.counters(); return n > before }) {
		return mcp.NewToolResultError("Timed out waiting for the match list."), nil
	}

	resp := sess.response()
	sess.mu.Lock()
	resp.Games = append([]pnet.GameSummary{}, sess.games...)
	sess.mu.Unlock()
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleCreateMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.open(ctx, request.GetString("name", ""), func(p *peer.Peer) error { return p.CreateGame() })
}

func (t *Tools) handleJoinMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := pnet.NormalizeCode(request.GetString("code", ""))
	if code == "" {
		return mcp.NewToolResultError("code is required."), nil
	}
	return t.open(ctx, request.GetString("name", ""), func(p *peer.Peer) error { return p.JoinGame(code) })
}

// open connects a new seat and runs enter until the relay places it in a
// match or refuses.
func (t *Tools) open(ctx context.Context, name string, enter func(p *peer.Peer) error) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return mcp.NewToolResultError("Already in a match. Use leave_match first."), nil
	}

	sess, err := t.dial(ctx, name)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to connect: %v", err), nil
	}
	if err := enter(sess.peer); err != nil {
		sess.Close()
		return mcp.NewToolResultErrorf("Failed to send request: %v", err), nil
	}
	sess.waitFor(ctx, t.wait, func() bool {
		info := sess.peer.Info()
		return info.GameID != "" || info.LastError != ""
	})
	info := sess.peer.Info()
	if info.GameID == "" {
		sess.Close()
		if info.LastError != "" {
			return mcp.NewToolResultError(info.LastError), nil
		}
		return mcp.NewToolResultError("Timed out waiting for the relay."), nil
	}
	t.active = sess
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleSelectGods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	ids := strings.FieldsFunc(request.GetString("gods", ""), func(r rune) bool { return r == ' ' || r == ',' })
	if err := sess.peer.SelectGods(ids); err != nil {
		return mcp.NewToolResultErrorf("Invalid team: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleRPSChoice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	choice := strings.ToLower(strings.TrimSpace(request.GetString("choice", "")))
	if choice != pnet.Rock && choice != pnet.Paper && choice != pnet.Scissors {
		return mcp.NewToolResultErrorf("Invalid choice %q: must be rock, paper or scissors.", choice), nil
	}

	_, before := sess.counters()
	lastErr := sess.peer.Info().LastError
	if err := sess.peer.ThrowRPS(choice); err != nil {
		return mcp.NewToolResultErrorf("Failed to send choice: %v", err), nil
	}
	sess.waitFor(ctx, t.wait, func() bool {
		_, n := sess.counters()
		return n > before || sess.peer.Info().LastError != lastErr
	})
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleRPSDecision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	lastErr := sess.peer.Info().LastError
	if err := sess.peer.DecideFirst(request.GetBool("go_first", true)); err != nil {
		return mcp.NewToolResultErrorf("Failed to send decision: %v", err), nil
	}
	sess.waitFor(ctx, t.wait, func() bool {
		return sess.peer.State() != nil || sess.peer.Info().LastError != lastErr
	})
	if info := sess.peer.Info(); info.LastError != lastErr {
		return mcp.NewToolResultError(info.LastError), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	id, err := sess.handIndex(request.GetInt("hand_index", 0))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid card: %v", err), nil
	}
	targets, err := peer.ParseTargets(strings.Fields(request.GetString("targets", "")))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid targets: %v", err), nil
	}
	if err := sess.peer.PlayCard(id, targets); err != nil {
		return mcp.NewToolResultErrorf("Cannot play card: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleDiscardCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	id, err := sess.handIndex(request.GetInt("hand_index", 0))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid card: %v", err), nil
	}
	if err := sess.peer.DiscardForEnergy(id); err != nil {
		return mcp.NewToolResultErrorf("Cannot discard: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	pings, err := peer.ParsePings(strings.Fields(request.GetString("pings", "")))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid pings: %v", err), nil
	}
	if err := sess.peer.EndTurn(pings); err != nil {
		return mcp.NewToolResultErrorf("Cannot end turn: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleWaitForTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	ok := sess.waitFor(ctx, t.wait, func() bool {
		return sess.isMyTurn() || sess.peer.Info().Status == "disconnected"
	})
	resp := sess.response()
	if !ok {
		resp.Notices = append(resp.Notices, "Still the opponent's turn. Call wait_for_turn again.")
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return errNoSession(), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func (t *Tools) handleLeaveMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.session() == nil {
		return errNoSession(), nil
	}
	t.Close()
	return mcp.NewToolResultText("Left the match."), nil
}

func errNoSession() *mcp.CallToolResult {
	return mcp.NewToolResultError("Not in a match. Use create_match or join_match first.")
}
