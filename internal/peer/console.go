package peer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/peterkuimelis/pantheon/internal/game"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
)

// Console is the terminal front end of a Peer: it prints relay notices and
// the board, and turns typed commands into peer calls.
type Console struct {
	mu      sync.Mutex // guards w
	w       io.Writer
	catalog *game.Catalog
	peer    *Peer
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer, catalog *game.Catalog) *Console {
	if catalog == nil {
		catalog = game.DefaultCatalog()
	}
	return &Console{w: w, catalog: catalog}
}

// Attach binds the console to the peer it drives.
func (c *Console) Attach(p *Peer) { c.peer = p }

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

// Notify renders a server message after the peer has applied it.
func (c *Console) Notify(msg pnet.ServerMessage) {
	switch msg.Type {
	case pnet.MsgGameCreated:
		c.printf("Game created. Code: %s\nWaiting for an opponent...\n", msg.GameID)
	case pnet.MsgPlayerJoined:
		c.printf("%s vs %s. Pick four gods with: select <god> <god> <god> <god>\n", msg.HostName, msg.GuestName)
	case pnet.MsgRejoined:
		c.printf("Rejoined game %s (%s).\n", msg.GameID, msg.Status)
	case pnet.MsgOpponentSelected:
		c.printf("Opponent has chosen their gods.\n")
	case pnet.MsgRPSStart:
		c.printf("Rock, paper, scissors for the first turn: rps rock|paper|scissors\n")
	case pnet.MsgRPSResult:
		c.renderRPS(msg)
	case pnet.MsgGameStart:
		c.printf("Match starts. %s goes first.\n", msg.FirstPlayer)
		if gs := c.peer.State(); gs != nil {
			c.RenderState(gs)
		}
	case pnet.MsgSyncState:
		if gs := c.peer.State(); gs != nil {
			c.RenderState(gs)
		}
	case pnet.MsgSyncRejected:
		c.printf("Your last move crossed with your opponent's and was undone.\n")
		if gs := c.peer.State(); gs != nil {
			c.RenderState(gs)
		}
	case pnet.MsgGamesList:
		c.renderGames(msg.Games)
	case pnet.MsgOpponentDisconnected:
		c.printf("%s lost connection. Waiting for them to return...\n", msg.PlayerID)
	case pnet.MsgOpponentReconnected:
		c.printf("%s is back.\n", msg.PlayerID)
	case pnet.MsgPlayerDisconnected:
		c.printf("%s did not return. The game is over.\n", msg.PlayerID)
	case pnet.MsgError:
		c.printf("Error: %s\n", msg.Message)
	}
}

func (c *Console) renderRPS(msg pnet.ServerMessage) {
	info := c.peer.Info()
	mine, theirs := msg.HostChoice, msg.GuestChoice
	if !info.IsHost {
		mine, theirs = theirs, mine
	}
	c.printf("You threw %s, they threw %s. ", mine, theirs)
	switch {
	case msg.Winner == "tie":
		c.printf("Tie, throw again.\n")
	case (msg.Winner == string(pnet.RoleHost)) == info.IsHost:
		c.printf("You won. Go first? first yes|no\n")
	default:
		c.printf("They won and will decide who goes first.\n")
	}
}

func (c *Console) renderGames(games []pnet.GameSummary) {
	if len(games) == 0 {
		c.printf("No open games.\n")
		return
	}
	c.printf("Open games:\n")
	for _, g := range games {
		c.printf("  %s  hosted by %s\n", g.ID, g.HostName)
	}
}

// RenderState prints the board from the peer's point of view.
func (c *Console) RenderState(gs *game.GameState) {
	me := c.peer.Name()
	you, opp := gs.Player(me), gs.Opponent(me)
	if you == nil || opp == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.w

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(w, "║  OPPONENT %s  Energy: %d  Hand: %d  Deck: %d  Discard: %d\n",
		opp.ID, opp.Energy, len(opp.Hand), len(opp.Deck), len(opp.Discard))
	for _, g := range opp.Gods {
		fmt.Fprintf(w, "║    %s\n", formatGod(g))
	}
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	for _, g := range you.Gods {
		fmt.Fprintf(w, "║    %s\n", formatGod(g))
	}
	fmt.Fprintf(w, "║  YOU %s  Energy: %d  Hand: %d  Deck: %d  Discard: %d\n",
		you.ID, you.Energy, len(you.Hand), len(you.Deck), len(you.Discard))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	switch {
	case gs.Status == game.StatusFinished && gs.IsDraw:
		fmt.Fprintf(w, "Turn %d | The match is a draw\n", gs.TurnNumber)
	case gs.Status == game.StatusFinished:
		fmt.Fprintf(w, "Turn %d | %s wins\n", gs.TurnNumber, gs.WinnerID)
	case gs.CurrentPlayerID == me:
		fmt.Fprintf(w, "Turn %d | %s | Your turn\n", gs.TurnNumber, gs.Phase)
	default:
		fmt.Fprintf(w, "Turn %d | %s | Opponent's turn\n", gs.TurnNumber, gs.Phase)
	}

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand:\n")
		for i, card := range you.Hand {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, formatCard(card))
		}
	}
}

func formatGod(g *game.GodState) string {
	if g.IsDead {
		return fmt.Sprintf("%-10s  DEAD", g.Name())
	}
	s := fmt.Sprintf("%-10s %-9s weak:%-9s HP %2d/%d", g.Name(), g.Card.Element, g.EffectiveWeakness(), g.CurrentHealth, g.Card.MaxHealth)
	if g.IsZombie {
		s += " ZOMBIE"
	}
	for _, st := range g.Statuses {
		s += " [" + string(st.Kind)
		if st.Stacks > 1 {
			s += " " + strconv.Itoa(st.Stacks)
		}
		if st.Duration > 0 {
			s += fmt.Sprintf(" %dt", st.Duration)
		}
		s += "]"
	}
	return s
}

func formatCard(c *game.SpellCard) string {
	if c.ID == game.HiddenCardID {
		return "(hidden)"
	}
	return c.DisplayString()
}

// Run reads commands from r until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	c.printf("Type 'help' for commands.\n")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := c.Exec(line)
			if err != nil {
				c.printf("%v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// Exec runs one command line. Rules violations come back as errors and
// nothing is sent to the relay.
func (c *Console) Exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	p := c.peer

	switch cmd {
	case "help":
		c.printHelp()
	case "quit", "exit":
		return true, nil
	case "list":
		return false, p.ListGames()
	case "gods":
		c.printGods()
	case "select":
		return false, p.SelectGods(args)
	case "rps":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: rps rock|paper|scissors")
		}
		return false, p.ThrowRPS(strings.ToLower(args[0]))
	case "first":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: first yes|no")
		}
		yes, err := parseYesNo(args[0])
		if err != nil {
			return false, err
		}
		return false, p.DecideFirst(yes)
	case "state":
		gs := p.State()
		if gs == nil {
			return false, ErrNoMatch
		}
		c.RenderState(gs)
	case "play":
		id, err := c.handCard(args)
		if err != nil {
			return false, err
		}
		targets, err := ParseTargets(args[1:])
		if err != nil {
			return false, err
		}
		return false, c.after(p.PlayCard(id, targets))
	case "discard":
		id, err := c.handCard(args)
		if err != nil {
			return false, err
		}
		return false, c.after(p.DiscardForEnergy(id))
	case "end":
		pings, err := ParsePings(args)
		if err != nil {
			return false, err
		}
		return false, c.after(p.EndTurn(pings))
	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return false, nil
}

func (c *Console) after(err error) error {
	if err != nil {
		return err
	}
	if gs := c.peer.State(); gs != nil {
		c.RenderState(gs)
	}
	return nil
}

// handCard maps a 1-based hand position to the card's instance id.
func (c *Console) handCard(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("which card? give its hand position")
	}
	gs := c.peer.State()
	if gs == nil {
		return 0, ErrNoMatch
	}
	hand := gs.Player(c.peer.Name()).Hand
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(hand) {
		return 0, fmt.Errorf("enter a number between 1 and %d", len(hand))
	}
	return hand[n-1].InstanceID, nil
}

// ParseTargets reads selector=god or any_god=player:god pairs.
func ParseTargets(args []string) ([]game.TargetChoice, error) {
	var out []game.TargetChoice
	for _, a := range args {
		sel, god, ok := strings.Cut(a, "=")
		if !ok || god == "" {
			return nil, fmt.Errorf("target %q: want selector=god", a)
		}
		tc := game.TargetChoice{Selector: game.TargetSelector(sel), GodID: god}
		if owner, id, ok := strings.Cut(god, ":"); ok {
			tc.PlayerID, tc.GodID = owner, id
		}
		if !tc.Selector.Valid() {
			return nil, fmt.Errorf("unknown selector %q", sel)
		}
		out = append(out, tc)
	}
	return out, nil
}

// ParsePings reads zombie>target pairs.
func ParsePings(args []string) ([]game.ZombiePing, error) {
	var out []game.ZombiePing
	for _, a := range args {
		z, t, ok := strings.Cut(a, ">")
		if !ok || z == "" || t == "" {
			return nil, fmt.Errorf("ping %q: want zombie>target", a)
		}
		out = append(out, game.ZombiePing{ZombieGodID: z, TargetGodID: t})
	}
	return out, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("enter yes or no")
}

func (c *Console) printGods() {
	for _, g := range c.catalog.Gods() {
		c.printf("  %-9s %-9s HP %2d  weak to %s\n", g.ID, g.Element, g.MaxHealth, g.Weakness)
	}
	for _, t := range c.catalog.Teams() {
		c.printf("  team %s: %s\n", t.Name, strings.Join(t.Gods, " "))
	}
}

func (c *Console) printHelp() {
	c.printf(`Commands:
  list                          open games on the relay
  gods                          the gods you can pick
  select <g1> <g2> <g3> <g4>    choose your team
  rps rock|paper|scissors       throw for the first turn
  first yes|no                  after winning the throw
  state                         show the board
  play <n> [sel=god ...]        play hand card n (any_god=player:god)
  discard <n>                   discard hand card n for energy
  end [zombie>target ...]       end your turn
  quit
`)
}
