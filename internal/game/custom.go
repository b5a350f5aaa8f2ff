package game

import (
	"sort"
	"sync"

	"github.com/peterkuimelis/pantheon/internal/log"
)

// CustomEffect implements one named one-off behavior. targets holds the gods the
// effect's selector resolved to (empty for hand selectors).
type CustomEffect func(rs *Resolution, eff SpellEffect, targets []*GodState)

// CustomEffects maps custom effect ids to handlers.
type CustomEffects struct {
	mu       sync.RWMutex
	handlers map[string]CustomEffect
}

// NewCustomEffects returns a registry preloaded with the built-in effects.
func NewCustomEffects() *CustomEffects {
	c := &CustomEffects{handlers: make(map[string]CustomEffect)}
	c.Register("revive_zombie", reviveZombie)
	c.Register("lifesteal", lifesteal)
	c.Register("mill_damage", millDamage)
	c.Register("blind_draw", blindDraw)
	c.Register("reveal_hand", revealHand)
	c.Register("detonate_marks", detonateMarks)
	return c
}

// Register adds or replaces a handler.
func (c *CustomEffects) Register(id string, fn CustomEffect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[id] = fn
}

// Lookup returns the handler for id.
func (c *CustomEffects) Lookup(id string) (CustomEffect, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.handlers[id]
	return fn, ok
}

// IDs returns the registered ids in sorted order.
func (c *CustomEffects) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.handlers))
	for id := range c.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultCustomEffects = NewCustomEffects()

// RegisterCustomEffect adds a handler to the registry used by resolvers built
// without an explicit one.
func RegisterCustomEffect(id string, fn CustomEffect) {
	defaultCustomEffects.Register(id, fn)
}

// reviveZombie brings the chosen dead ally back as a zombie driven by this
// card. Zombies always rise with ZombieHealth.
func reviveZombie(rs *Resolution, _ SpellEffect, targets []*GodState) {
	if len(targets) == 0 || !targets[0].IsDead {
		rs.Skip("no fallen ally")
		return
	}
	hp := ZombieHealth
	g := targets[0]
	g.IsDead = false
	g.IsZombie = true
	g.ZombieCardID = rs.Card.ID
	g.CurrentHealth = hp
	g.Statuses = nil
	g.TemporaryWeakness = ""
	rs.Log(log.NewZombieEvent(rs.Turn(), rs.Phase(), rs.Source.ID, g.Name(), hp))
}

// lifesteal damages the targets and heals the card's god by the health removed.
func lifesteal(rs *Resolution, eff SpellEffect, targets []*GodState) {
	if len(targets) == 0 {
		rs.Skip("no valid target")
		return
	}
	dealt := 0
	for _, g := range targets {
		dealt += rs.Damage(g, eff.Value)
	}
	if self := rs.SourceGod(); self != nil && dealt > 0 {
		rs.Heal(self, dealt)
	}
}

// millDamage mills the opponent and deals 1 damage per milled card.
func millDamage(rs *Resolution, eff SpellEffect, targets []*GodState) {
	milled := rs.Mill(rs.Opponent, eff.Value)
	if milled == 0 || len(targets) == 0 {
		rs.Skip("nothing milled")
		return
	}
	for _, g := range targets {
		rs.Damage(g, milled)
	}
}

// blindDraw makes the opponent draw cards they cannot see. These may exceed the hand limit.
func blindDraw(rs *Resolution, eff SpellEffect, _ []*GodState) {
	if len(rs.Draw(rs.Opponent, max(eff.Value, 1), true)) == 0 {
		rs.Skip("no card to draw")
	}
}

// revealHand shows the opponent's hand to the source player.
func revealHand(rs *Resolution, _ SpellEffect, _ []*GodState) {
	for _, c := range rs.Opponent.Hand {
		c.RevealedTo = rs.Source.ID
	}
	rs.Log(log.NewRevealEvent(rs.Turn(), rs.Phase(), rs.Source.ID, rs.Opponent.ID, len(rs.Opponent.Hand)))
}

// detonateMarks clears lightning marks from the targets, dealing eff.Value per mark.
func detonateMarks(rs *Resolution, eff SpellEffect, targets []*GodState) {
	per := eff.Value
	if per <= 0 {
		per = MarkBonus
	}
	detonated := false
	for _, g := range targets {
		removed := g.RemoveStatus(StatusLightningMark, 0)
		if removed == 0 {
			continue
		}
		detonated = true
		rs.Log(log.NewStatusRemovedEvent(rs.Turn(), rs.Phase(), rs.Source.ID, rs.Card.Name, g.Name(), string(StatusLightningMark), removed))
		rs.Damage(g, per*removed)
	}
	if !detonated {
		rs.Skip("no lightning marks")
	}
}
