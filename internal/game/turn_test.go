package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pantheon/internal/log"
)

func TestNewMatchEnergyAsymmetry(t *testing.T) {
	gs, events := newTestMatch(t, newTestController(1))

	assert.Equal(t, StatusPlaying, gs.Status)
	assert.Equal(t, PhaseMain, gs.Phase)
	assert.Equal(t, alice, gs.CurrentPlayerID)
	assert.Equal(t, 1, gs.TurnNumber)
	assert.Equal(t, FirstEnergy, gs.Player(alice).Energy)
	assert.Equal(t, SecondEnergy, gs.Player(bob).Energy)

	a, b := gs.Player(alice), gs.Player(bob)
	assert.Len(t, a.Hand, MaxHandSize)
	assert.Empty(t, b.Hand)
	assert.Len(t, a.Deck, 4*5-MaxHandSize)
	assert.Len(t, b.Deck, 4*5)
	assert.Len(t, a.Gods, GodsPerPlayer)
	assert.Len(t, eventsOfType(events, log.EventDraw), MaxHandSize)

	ids := make(map[int]bool)
	for _, p := range gs.Players {
		for _, c := range append(p.Hand, p.Deck...) {
			assert.False(t, ids[c.InstanceID], "instance ids are unique")
			ids[c.InstanceID] = true
		}
	}
}

func TestNewMatchRejectsBadSetup(t *testing.T) {
	tc := newTestController(1)
	_, _, err := tc.NewMatch(MatchSetup{
		Host:          PlayerSetup{ID: alice, Gods: primal},
		Guest:         PlayerSetup{ID: bob, Gods: []string{"ignis", "ignis", "nyx", "solara"}},
		FirstPlayerID: alice,
	})
	assert.ErrorIs(t, err, ErrInvalidTeam)

	_, _, err = tc.NewMatch(MatchSetup{
		Host:          PlayerSetup{ID: alice, Gods: primal},
		Guest:         PlayerSetup{ID: alice, Gods: twilight},
		FirstPlayerID: alice,
	})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestPlayWeaknessCompetenceCard(t *testing.T) {
	gs := bareState(t, primal, []string{"zephyra", "nerida", "solara", "nyx"})
	god(gs, bob, "zephyra").CurrentHealth = 10
	gs.Player(alice).Energy = 5
	card := giveCard(t, gs, alice, "ignis_fireball")
	require.Equal(t, SpellCompetence, card.Type)
	require.Equal(t, 2, card.Cost)

	next, _, err := newTestController(1).PlayCard(gs, alice, card.InstanceID, []TargetChoice{enemy("zephyra")})
	require.NoError(t, err)
	assert.Equal(t, 10-3*2, god(next, bob, "zephyra").CurrentHealth)
	p := next.Player(alice)
	assert.Equal(t, 5-2+card.EnergyGain, p.Energy)
	assert.True(t, p.HasPlayedCard)
	assert.Empty(t, p.Hand)
	require.Len(t, p.Discard, 1)
	assert.Equal(t, card.InstanceID, p.Discard[0].InstanceID)
}

func TestPlayCardRulesViolations(t *testing.T) {
	tc := newTestController(1)

	t.Run("insufficient energy", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		gs.Player(alice).Energy = 1
		c := giveCard(t, gs, alice, "ignis_fireball")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, []TargetChoice{enemy("nyx")})
		assert.ErrorIs(t, err, ErrInsufficientEnergy)
		assert.True(t, IsRulesViolation(err))
	})

	t.Run("second play", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		first := giveCard(t, gs, alice, "ignis_ember")
		second := giveCard(t, gs, alice, "zephyra_gust")
		next, _, err := tc.PlayCard(gs, alice, first.InstanceID, []TargetChoice{enemy("nyx")})
		require.NoError(t, err)
		_, _, err = tc.PlayCard(next, alice, second.InstanceID, []TargetChoice{enemy("nyx")})
		assert.ErrorIs(t, err, ErrAlreadyPlayed)
	})

	t.Run("not your turn", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		c := giveCard(t, gs, bob, "nyx_shade")
		_, _, err := tc.PlayCard(gs, bob, c.InstanceID, nil)
		assert.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("card not in hand", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		_, _, err := tc.PlayCard(gs, alice, 999, nil)
		assert.ErrorIs(t, err, ErrCardNotInHand)
	})

	t.Run("stunned god", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		god(gs, alice, "ignis").ApplyStatus(StatusStun, 1, 1)
		c := giveCard(t, gs, alice, "ignis_ember")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, []TargetChoice{enemy("nyx")})
		assert.ErrorIs(t, err, ErrGodStunned)
	})

	t.Run("must target provoker", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		god(gs, bob, "solara").ApplyStatus(StatusProvocation, 1, 1)
		c := giveCard(t, gs, alice, "ignis_ember")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, []TargetChoice{enemy("nyx")})
		assert.ErrorIs(t, err, ErrMustTargetProvoker)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("dead target", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		god(gs, bob, "nyx").IsDead = true
		c := giveCard(t, gs, alice, "ignis_ember")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, []TargetChoice{enemy("nyx")})
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("missing choice", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		gs.Player(alice).Energy = 2
		c := giveCard(t, gs, alice, "ignis_fireball")
		next, _, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
		assert.ErrorIs(t, err, ErrInvalidTarget)
		assert.Nil(t, next)
		assert.Equal(t, 2, gs.Player(alice).Energy)
		assert.False(t, gs.Player(alice).HasPlayedCard)
	})

	t.Run("match over", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		gs.Status = StatusFinished
		c := giveCard(t, gs, alice, "ignis_ember")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
		assert.ErrorIs(t, err, ErrGameOver)
	})
}

func TestSingleTargetChoiceMayBeImplied(t *testing.T) {
	tc := newTestController(1)

	t.Run("one living enemy", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		for _, id := range []string{"nerida", "solara", "nyx"} {
			god(gs, bob, id).IsDead = true
		}
		gs.Player(alice).Energy = 2
		c := giveCard(t, gs, alice, "ignis_fireball")
		next, _, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
		require.NoError(t, err)
		assert.Less(t, god(next, bob, "morrigan").CurrentHealth, god(gs, bob, "morrigan").CurrentHealth)
	})

	t.Run("provoker takes the hit", func(t *testing.T) {
		gs := bareState(t, primal, twilight)
		god(gs, bob, "solara").ApplyStatus(StatusProvocation, 1, 1)
		gs.Player(alice).Energy = 2
		c := giveCard(t, gs, alice, "ignis_fireball")
		next, _, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
		require.NoError(t, err)
		assert.Less(t, god(next, bob, "solara").CurrentHealth, god(gs, bob, "solara").CurrentHealth)
	})

	t.Run("no fallen ally to raise", func(t *testing.T) {
		gs := bareState(t, twilight, primal)
		gs.Player(alice).Energy = 3
		c := giveCard(t, gs, alice, "morrigan_raise")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
		assert.NoError(t, err)
	})

	t.Run("two fallen allies", func(t *testing.T) {
		gs := bareState(t, twilight, primal)
		god(gs, alice, "nyx").IsDead = true
		god(gs, alice, "solara").IsDead = true
		gs.Player(alice).Energy = 3
		c := giveCard(t, gs, alice, "morrigan_raise")
		_, _, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})
}

func TestDiscardForEnergyOncePerTurn(t *testing.T) {
	tc := newTestController(1)
	gs := bareState(t, primal, twilight)
	a := giveCard(t, gs, alice, "ignis_inferno")
	b := giveCard(t, gs, alice, "ignis_ember")
	c := giveCard(t, gs, alice, "zephyra_gust")

	next, events, err := tc.DiscardForEnergy(gs, alice, a.InstanceID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Player(alice).Energy)
	assert.Len(t, next.Player(alice).Discard, 1)
	assert.Len(t, eventsOfType(events, log.EventDiscardForEnergy), 1)

	_, _, err = tc.DiscardForEnergy(next, alice, b.InstanceID)
	assert.ErrorIs(t, err, ErrAlreadyDiscarded)

	_, _, err = tc.PlayCard(next, alice, c.InstanceID, []TargetChoice{enemy("nyx")})
	assert.NoError(t, err, "discarding does not use up the play")
}

func TestEndTurnHandsOver(t *testing.T) {
	tc := newTestController(1)
	gs, _ := newTestMatch(t, tc)
	god(gs, alice, "terran").ApplyStatus(StatusPoison, 2, 0)
	god(gs, bob, "nyx").ApplyStatus(StatusPoison, 2, 0)

	next, events, err := tc.EndTurn(gs, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, bob, next.CurrentPlayerID)
	assert.Equal(t, 2, next.TurnNumber)
	assert.Equal(t, PhaseMain, next.Phase)
	assert.Len(t, next.Player(bob).Hand, MaxHandSize)
	assert.Equal(t, 22, god(next, alice, "terran").CurrentHealth, "ending player's gods tick")
	assert.Equal(t, 18, god(next, bob, "nyx").CurrentHealth, "opponent's gods do not")
	assert.Len(t, eventsOfType(events, log.EventStatusTick), 1)

	_, _, err = tc.EndTurn(next, alice, nil)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestEndTurnResetsTurnFlags(t *testing.T) {
	tc := newTestController(1)
	gs, _ := newTestMatch(t, tc)
	gs.Player(bob).HasPlayedCard = true
	gs.Player(bob).HasDiscardedForEnergy = true

	next, _, err := tc.EndTurn(gs, alice, nil)
	require.NoError(t, err)
	assert.False(t, next.Player(bob).HasPlayedCard)
	assert.False(t, next.Player(bob).HasDiscardedForEnergy)
}

func TestZombiePing(t *testing.T) {
	tc := newTestController(1)
	gs := bareState(t, twilight, primal)
	nyx := god(gs, alice, "nyx")
	nyx.IsDead, nyx.IsZombie, nyx.CurrentHealth = false, true, ZombieHealth
	fillDeck(t, gs, bob, "ignis_ember", 10)

	next, events, err := tc.EndTurn(gs, alice, []ZombiePing{{ZombieGodID: "nyx", TargetGodID: "ignis"}})
	require.NoError(t, err)
	assert.Equal(t, 19, god(next, bob, "ignis").CurrentHealth)
	assert.Len(t, eventsOfType(events, log.EventZombiePing), 1)

	_, _, err = tc.EndTurn(gs, alice, []ZombiePing{{ZombieGodID: "nerida", TargetGodID: "ignis"}})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestWinWhenAllOpposingGodsDie(t *testing.T) {
	tc := newTestController(1)
	gs := bareState(t, primal, twilight)
	for _, g := range gs.Player(bob).Gods {
		g.CurrentHealth = 1
	}
	gs.Player(alice).Energy = 4
	c := giveCard(t, gs, alice, "ignis_inferno")

	next, events, err := tc.PlayCard(gs, alice, c.InstanceID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, next.Status)
	assert.Equal(t, alice, next.WinnerID)
	assert.Len(t, eventsOfType(events, log.EventWin), 1)

	_, _, err = tc.EndTurn(next, alice, nil)
	assert.True(t, errors.Is(err, ErrGameOver))
}

func TestTurnLimitTiebreak(t *testing.T) {
	tc := newTestController(1)

	gs := bareState(t, primal, twilight)
	gs.TurnNumber = gs.MaxTurns
	god(gs, bob, "nyx").IsDead = true
	next, _, err := tc.EndTurn(gs, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, next.Status)
	assert.Equal(t, alice, next.WinnerID, "more living gods")

	gs = bareState(t, primal, primal)
	gs.TurnNumber = gs.MaxTurns
	god(gs, alice, "terran").CurrentHealth = 5
	next, _, err = tc.EndTurn(gs, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, bob, next.WinnerID, "more total health")

	gs = bareState(t, primal, primal)
	gs.TurnNumber = gs.MaxTurns
	next, _, err = tc.EndTurn(gs, alice, nil)
	require.NoError(t, err)
	assert.True(t, next.IsDraw)
	assert.Empty(t, next.WinnerID)
}

func TestViewForHidesPrivateCards(t *testing.T) {
	gs := bareState(t, primal, twilight)
	mine := giveCard(t, gs, alice, "ignis_ember")
	blind := giveCard(t, gs, alice, "ignis_fireball")
	blind.HiddenFromOwner = true
	theirs := giveCard(t, gs, bob, "nyx_shade")
	shown := giveCard(t, gs, bob, "nyx_venom")
	shown.RevealedTo = alice
	fillDeck(t, gs, alice, "ignis_ember", 2)

	view := gs.ViewFor(alice)
	hand := view.Player(alice).Hand
	assert.Equal(t, mine.ID, hand[0].ID)
	assert.Equal(t, HiddenCardID, hand[1].ID)
	assert.Equal(t, blind.InstanceID, hand[1].InstanceID)

	opp := view.Player(bob).Hand
	assert.Equal(t, HiddenCardID, opp[0].ID)
	assert.Equal(t, theirs.InstanceID, opp[0].InstanceID)
	assert.Equal(t, shown.ID, opp[1].ID)

	for _, c := range view.Player(alice).Deck {
		assert.Equal(t, HiddenCardID, c.ID)
	}
	assert.Equal(t, "ignis_fireball", gs.Player(alice).Hand[1].ID, "view does not modify state")
}

func TestCloneIsDeep(t *testing.T) {
	gs, _ := newTestMatch(t, newTestController(2))
	cp := gs.Clone()
	cp.Player(alice).Hand[0].RevealedTo = bob
	cp.Player(alice).Gods[0].ApplyStatus(StatusPoison, 1, 0)
	cp.Player(alice).Energy = 9

	assert.Empty(t, gs.Player(alice).Hand[0].RevealedTo)
	assert.Empty(t, gs.Player(alice).Gods[0].Statuses)
	assert.Equal(t, 0, gs.Player(alice).Energy)
}
