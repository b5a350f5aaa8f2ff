package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pantheon/internal/log"
)

func newTestResolver() *Resolver {
	return NewResolver(NewDeckService(NewSeededShuffler(3)), nil)
}

func enemy(godID string) TargetChoice {
	return TargetChoice{Selector: TargetEnemyGod, PlayerID: bob, GodID: godID}
}

func ally(godID string) TargetChoice {
	return TargetChoice{Selector: TargetAllyGod, PlayerID: alice, GodID: godID}
}

func TestEveryEffectKindHasHandler(t *testing.T) {
	for _, k := range EffectKinds {
		assert.Contains(t, effectHandlers, k)
	}
	assert.Len(t, effectHandlers, len(EffectKinds))
}

func TestDefaultCatalogCustomEffectsAreRegistered(t *testing.T) {
	reg := NewCustomEffects()
	for _, s := range DefaultCatalog().Spells() {
		for _, eff := range s.Effects {
			if eff.Kind == EffectCustom {
				_, ok := reg.Lookup(eff.CustomID)
				assert.True(t, ok, "%s uses %s", s.ID, eff.CustomID)
			}
		}
	}
}

func TestDamageDoublesOnWeakness(t *testing.T) {
	gs := bareState(t, primal, []string{"zephyra", "terran", "solara", "nyx"})
	fireball := spellByID(t, "ignis_fireball")

	next, _ := newTestResolver().Resolve(gs, alice, fireball, []TargetChoice{enemy("zephyra")})
	assert.Equal(t, 18-6, god(next, bob, "zephyra").CurrentHealth)

	next, _ = newTestResolver().Resolve(gs, alice, fireball, []TargetChoice{enemy("terran")})
	assert.Equal(t, 24-3, god(next, bob, "terran").CurrentHealth)
}

func TestTemporaryWeaknessIsCheckedFirst(t *testing.T) {
	gs := bareState(t, primal, []string{"zephyra", "terran", "solara", "nyx"})
	god(gs, bob, "terran").ApplyTemporaryWeakness(ElementFire, 1)

	next, events := newTestResolver().Resolve(gs, alice, spellByID(t, "ignis_fireball"), []TargetChoice{enemy("terran")})
	assert.Equal(t, 24-6, god(next, bob, "terran").CurrentHealth)
	dmg := eventsOfType(events, log.EventDamage)
	require.Len(t, dmg, 1)
	assert.Equal(t, 6, dmg[0].Amount)
}

func TestShieldAbsorbsMultipliedDamage(t *testing.T) {
	gs := bareState(t, primal, []string{"zephyra", "terran", "solara", "nyx"})
	god(gs, bob, "zephyra").ApplyStatus(StatusShield, 4, 0)

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "ignis_fireball"), []TargetChoice{enemy("zephyra")})
	z := god(next, bob, "zephyra")
	assert.Equal(t, 16, z.CurrentHealth)
	assert.False(t, z.HasStatus(StatusShield))
}

func TestLethalDamagePurgesGodCardsInSameStep(t *testing.T) {
	gs := bareState(t, primal, twilight)
	god(gs, bob, "morrigan").CurrentHealth = 2
	giveCard(t, gs, bob, "morrigan_curse")
	giveCard(t, gs, bob, "nyx_shade")
	fillDeck(t, gs, bob, "morrigan_whisper", 2)
	fillDeck(t, gs, bob, "nyx_venom", 1)
	bp := gs.Player(bob)
	bp.Discard = append(bp.Discard, spellByID(t, "morrigan_raise").instance(gs.NextID()))

	next, events := newTestResolver().Resolve(gs, alice, spellByID(t, "ignis_fireball"), []TargetChoice{enemy("morrigan")})
	m := god(next, bob, "morrigan")
	assert.True(t, m.IsDead)
	assert.Equal(t, 0, m.CurrentHealth)

	np := next.Player(bob)
	assert.Zero(t, countGodCards(np.Hand, "morrigan"))
	assert.Zero(t, countGodCards(np.Deck, "morrigan"))
	assert.Zero(t, countGodCards(np.Discard, "morrigan"))
	assert.Equal(t, 4, countGodCards(np.RemovedCards, "morrigan"))
	assert.Equal(t, 1, countGodCards(np.Hand, "nyx"))
	assert.Equal(t, 1, countGodCards(np.Deck, "nyx"))

	assert.Len(t, eventsOfType(events, log.EventGodDeath), 1)
	removed := eventsOfType(events, log.EventCardsRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, 4, removed[0].Amount)

	assert.False(t, god(gs, bob, "morrigan").IsDead, "input state untouched")
	assert.Len(t, gs.Player(bob).Hand, 2)
}

func TestProvocationRedirectsSingleTarget(t *testing.T) {
	gs := bareState(t, primal, twilight)
	god(gs, bob, "solara").ApplyStatus(StatusProvocation, 1, 1)

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "ignis_fireball"), []TargetChoice{enemy("nyx")})
	assert.Equal(t, 18, god(next, bob, "nyx").CurrentHealth)
	assert.Equal(t, 17, god(next, bob, "solara").CurrentHealth)

	next, _ = newTestResolver().Resolve(gs, alice, spellByID(t, "ignis_inferno"), nil)
	for _, g := range next.Player(bob).Gods {
		assert.Equal(t, g.Card.MaxHealth-2, g.CurrentHealth, "area damage ignores provocation")
	}
}

func TestSameReusesPreviousTargets(t *testing.T) {
	gs := bareState(t, primal, twilight)
	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "ignis_scorch"), []TargetChoice{enemy("nerida")})
	n := god(next, bob, "nerida")
	assert.Equal(t, 18, n.CurrentHealth)
	assert.Equal(t, 2, n.Stacks(StatusPoison))
	assert.False(t, god(next, bob, "nyx").HasStatus(StatusPoison))
}

func TestLightningMarkRemovalGrantsBonus(t *testing.T) {
	gs := bareState(t, primal, twilight)
	god(gs, bob, "solara").ApplyStatus(StatusLightningMark, 2, 0)

	next, events := newTestResolver().Resolve(gs, alice, spellByID(t, "voltar_thunderclap"), []TargetChoice{enemy("solara")})
	s := god(next, bob, "solara")
	assert.Equal(t, 20-(2+2*MarkBonus), s.CurrentHealth)
	assert.False(t, s.HasStatus(StatusLightningMark))
	removed := eventsOfType(events, log.EventStatusRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, 2, removed[0].Amount)
}

func TestDetonateMarks(t *testing.T) {
	gs := bareState(t, primal, twilight)
	god(gs, bob, "solara").ApplyStatus(StatusLightningMark, 1, 0)
	god(gs, bob, "nyx").ApplyStatus(StatusLightningMark, 2, 0)

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "voltar_overload"), nil)
	assert.Equal(t, 18, god(next, bob, "solara").CurrentHealth)
	assert.Equal(t, 14, god(next, bob, "nyx").CurrentHealth)
	assert.Equal(t, 16, god(next, bob, "morrigan").CurrentHealth)
	// Nerida is weak to lightning but carries no marks.
	assert.Equal(t, 20, god(next, bob, "nerida").CurrentHealth)
}

func TestHealClampsWithoutShield(t *testing.T) {
	gs := bareState(t, primal, twilight)
	god(gs, alice, "terran").CurrentHealth = 23

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "terran_roots"), []TargetChoice{ally("terran")})
	assert.Equal(t, 24, god(next, alice, "terran").CurrentHealth)
}

func TestHealWithShieldMayOverheal(t *testing.T) {
	gs := bareState(t, twilight, primal)
	god(gs, alice, "nerida").CurrentHealth = 19

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "nerida_wellspring"), []TargetChoice{ally("nerida")})
	n := god(next, alice, "nerida")
	assert.Equal(t, 22, n.CurrentHealth)
	assert.Equal(t, 2, n.Stacks(StatusShield))

	n.TakeDamage(2)
	assert.Equal(t, 20, n.CurrentHealth, "overheal ends with the shield")
}

func TestZeroTargetsSkipsEffect(t *testing.T) {
	gs := bareState(t, twilight, primal)
	next, events := newTestResolver().Resolve(gs, alice, spellByID(t, "morrigan_raise"), nil)
	assert.Len(t, eventsOfType(events, log.EventSkipped), 1)
	for _, g := range next.Player(alice).Gods {
		assert.False(t, g.IsZombie)
	}
}

func TestReviveZombie(t *testing.T) {
	gs := bareState(t, twilight, primal)
	nyx := god(gs, alice, "nyx")
	nyx.IsDead, nyx.CurrentHealth = true, 0

	next, events := newTestResolver().Resolve(gs, alice, spellByID(t, "morrigan_raise"),
		[]TargetChoice{{Selector: TargetDeadAllyGod, PlayerID: alice, GodID: "nyx"}})
	z := god(next, alice, "nyx")
	assert.False(t, z.IsDead)
	assert.True(t, z.IsZombie)
	assert.Equal(t, ZombieHealth, z.CurrentHealth)
	assert.Equal(t, "morrigan_raise", z.ZombieCardID)
	assert.Len(t, eventsOfType(events, log.EventZombie), 1)
}

func TestReviveZombieIgnoresEffectValue(t *testing.T) {
	gs := bareState(t, twilight, primal)
	god(gs, alice, "nyx").IsDead = true

	card := *spellByID(t, "morrigan_raise")
	card.Effects = []SpellEffect{custom("revive_zombie", 12, TargetDeadAllyGod)}
	next, _ := newTestResolver().Resolve(gs, alice, &card,
		[]TargetChoice{{Selector: TargetDeadAllyGod, PlayerID: alice, GodID: "nyx"}})
	assert.Equal(t, ZombieHealth, god(next, alice, "nyx").CurrentHealth)
}

func TestLifesteal(t *testing.T) {
	gs := bareState(t, twilight, primal)
	god(gs, alice, "nyx").CurrentHealth = 10

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "nyx_drain"),
		[]TargetChoice{{Selector: TargetEnemyGod, PlayerID: bob, GodID: "terran"}})
	assert.Equal(t, 21, god(next, bob, "terran").CurrentHealth)
	assert.Equal(t, 13, god(next, alice, "nyx").CurrentHealth)
}

func TestMillDamage(t *testing.T) {
	gs := bareState(t, primal, twilight)
	fillDeck(t, gs, bob, "nyx_shade", 5)

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "terran_landslide"), []TargetChoice{enemy("nyx")})
	assert.Equal(t, 16, god(next, bob, "nyx").CurrentHealth)
	assert.Len(t, next.Player(bob).Deck, 3)
	assert.Len(t, next.Player(bob).Discard, 2)
}

func TestBlindDrawOverflowsAndHides(t *testing.T) {
	gs := bareState(t, twilight, primal)
	for range MaxHandSize {
		giveCard(t, gs, bob, "ignis_ember")
	}
	fillDeck(t, gs, bob, "terran_pebble", 3)

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "nyx_nightmare"), nil)
	hand := next.Player(bob).Hand
	require.Len(t, hand, MaxHandSize+2)
	assert.True(t, hand[5].HiddenFromOwner)
	assert.True(t, hand[6].HiddenFromOwner)
	assert.False(t, hand[0].HiddenFromOwner)
}

func TestRevealHandAndDraw(t *testing.T) {
	gs := bareState(t, twilight, primal)
	giveCard(t, gs, bob, "ignis_ember")
	giveCard(t, gs, bob, "ignis_fireball")
	fillDeck(t, gs, alice, "solara_ray", 1)

	next, events := newTestResolver().Resolve(gs, alice, spellByID(t, "solara_insight"), nil)
	for _, c := range next.Player(bob).Hand {
		assert.Equal(t, alice, c.RevealedTo)
	}
	assert.Len(t, next.Player(alice).Hand, 1)
	assert.Len(t, eventsOfType(events, log.EventReveal), 1)
}

func TestEnemyDiscardAndEnergyDrain(t *testing.T) {
	gs := bareState(t, twilight, primal)
	giveCard(t, gs, bob, "ignis_ember")
	gs.Player(bob).Energy = 0

	next, _ := newTestResolver().Resolve(gs, alice, spellByID(t, "nerida_undertow"), nil)
	assert.Empty(t, next.Player(bob).Hand)
	assert.Len(t, next.Player(bob).Discard, 1)

	next, _ = newTestResolver().Resolve(gs, alice, spellByID(t, "morrigan_drain"), nil)
	assert.Equal(t, 0, next.Player(bob).Energy, "energy never goes negative")
}

func TestRequireStatusCondition(t *testing.T) {
	gs := bareState(t, twilight, primal)
	harvest := spellByID(t, "morrigan_harvest")
	target := []TargetChoice{{Selector: TargetEnemyGod, PlayerID: bob, GodID: "terran"}}

	next, _ := newTestResolver().Resolve(gs, alice, harvest, target)
	assert.Equal(t, 23, god(next, bob, "terran").CurrentHealth)

	god(gs, bob, "terran").ApplyStatus(StatusPoison, 1, 0)
	next, _ = newTestResolver().Resolve(gs, alice, harvest, target)
	assert.Equal(t, 21, god(next, bob, "terran").CurrentHealth)
}

func TestCustomEffectRegistration(t *testing.T) {
	reg := NewCustomEffects()
	reg.Register("smite_all", func(rs *Resolution, eff SpellEffect, _ []*GodState) {
		for _, g := range rs.Opponent.LivingGods() {
			rs.Damage(g, eff.Value)
		}
	})
	assert.Contains(t, reg.IDs(), "smite_all")

	card := &SpellCard{ID: "smite", GodID: "ignis", Name: "Smite", Element: ElementLight, Type: SpellCompetence,
		Effects: []SpellEffect{{Kind: EffectCustom, CustomID: "smite_all", Value: 1}}}
	gs := bareState(t, primal, twilight)
	next, _ := NewResolver(nil, reg).Resolve(gs, alice, card, nil)
	assert.Equal(t, 16, god(next, bob, "nyx").CurrentHealth, "nyx is weak to light")
	assert.Equal(t, 19, god(next, bob, "nerida").CurrentHealth)
}
