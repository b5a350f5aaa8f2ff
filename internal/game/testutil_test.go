package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pantheon/internal/log"
)

const (
	alice = "alice"
	bob   = "bob"
)

var (
	primal   = []string{"ignis", "zephyra", "terran", "voltar"}
	twilight = []string{"nerida", "solara", "nyx", "morrigan"}
)

func testNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func newTestController(seed uint64) *TurnController {
	return NewTurnController(ControllerConfig{
		Shuffler: NewSeededShuffler(seed),
		Now:      testNow,
	})
}

// newTestMatch starts a default-catalog match: alice (primal) goes first against bob (twilight).
func newTestMatch(t *testing.T, tc *TurnController) (*GameState, []log.GameEvent) {
	t.Helper()
	gs, events, err := tc.NewMatch(MatchSetup{
		ID:            "match-1",
		Host:          PlayerSetup{ID: alice, Gods: primal},
		Guest:         PlayerSetup{ID: bob, Gods: twilight},
		FirstPlayerID: alice,
	})
	require.NoError(t, err)
	return gs, events
}

// bareState builds a main-phase state with empty piles and full-health gods.
func bareState(t *testing.T, hostGods, guestGods []string) *GameState {
	t.Helper()
	cat := DefaultCatalog()
	gs := &GameState{
		ID:              "bare",
		Status:          StatusPlaying,
		Phase:           PhaseMain,
		CurrentPlayerID: alice,
		TurnNumber:      1,
		MaxTurns:        DefaultMaxTurns,
	}
	for i, side := range []struct {
		id   string
		gods []string
	}{{alice, hostGods}, {bob, guestGods}} {
		cards, err := cat.Team(side.gods)
		require.NoError(t, err)
		p := &PlayerState{ID: side.id}
		for _, g := range cards {
			p.Gods = append(p.Gods, &GodState{Card: g, CurrentHealth: g.MaxHealth})
		}
		gs.Players[i] = p
	}
	return gs
}

// spellByID returns a catalog spell definition.
func spellByID(t *testing.T, id string) *SpellCard {
	t.Helper()
	for _, s := range DefaultCatalog().Spells() {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("unknown spell %q", id)
	return nil
}

// giveCard puts a fresh instance of spell id into the player's hand and returns it.
func giveCard(t *testing.T, gs *GameState, playerID, id string) *SpellCard {
	t.Helper()
	c := spellByID(t, id).instance(gs.NextID())
	p := gs.Player(playerID)
	p.Hand = append(p.Hand, c)
	return c
}

// fillDeck puts n fresh instances of spell id into the player's deck.
func fillDeck(t *testing.T, gs *GameState, playerID, id string, n int) {
	t.Helper()
	p := gs.Player(playerID)
	for range n {
		p.Deck = append(p.Deck, spellByID(t, id).instance(gs.NextID()))
	}
}

func god(gs *GameState, playerID, godID string) *GodState {
	return gs.Player(playerID).God(godID)
}

func eventsOfType(events []log.GameEvent, typ log.EventType) []log.GameEvent {
	var out []log.GameEvent
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func countGodCards(cards []*SpellCard, godID string) int {
	n := 0
	for _, c := range cards {
		if c.GodID == godID {
			n++
		}
	}
	return n
}
