package game

import (
	"fmt"
	"slices"

	"github.com/peterkuimelis/pantheon/internal/log"
)

// effectHandler applies one effect of the card being resolved.
type effectHandler func(rs *Resolution, eff SpellEffect)

// effectHandlers covers every EffectKind. Adding a kind without a handler fails catalog validation.
var effectHandlers = map[EffectKind]effectHandler{
	EffectDamage:       applyDamage,
	EffectHeal:         applyHeal,
	EffectShield:       applyShield,
	EffectEnergy:       applyEnergy,
	EffectDraw:         applyDraw,
	EffectDiscard:      applyDiscard,
	EffectMill:         applyMill,
	EffectStatus:       applyStatus,
	EffectRemoveStatus: applyRemoveStatus,
	EffectCustom:       applyCustom,
}

func applyDamage(rs *Resolution, eff SpellEffect) {
	targets := rs.godTargets(eff)
	if len(targets) == 0 {
		rs.Skip("no valid target")
		return
	}
	amount := eff.Value + rs.markBonus
	rs.markBonus = 0
	for _, g := range targets {
		rs.DamageAs(g, amount, rs.element(eff))
	}
}

func applyHeal(rs *Resolution, eff SpellEffect) {
	targets := rs.godTargets(eff)
	if len(targets) == 0 {
		rs.Skip("no living target to heal")
		return
	}
	for _, g := range targets {
		rs.Heal(g, eff.Value)
	}
}

func applyShield(rs *Resolution, eff SpellEffect) {
	targets := rs.godTargets(eff)
	if len(targets) == 0 {
		rs.Skip("no living target to shield")
		return
	}
	for _, g := range targets {
		if g.ApplyStatus(StatusShield, eff.Value, eff.Duration) {
			rs.Log(log.NewStatusAppliedEvent(rs.Turn(), rs.Phase(), rs.Source.ID, rs.Card.Name, g.Name(), string(StatusShield), eff.Value))
		}
	}
}

func applyStatus(rs *Resolution, eff SpellEffect) {
	targets := rs.godTargets(eff)
	if len(targets) == 0 {
		rs.Skip("no valid target")
		return
	}
	amount := max(eff.Value, 1)
	for _, g := range targets {
		var ok bool
		if eff.Status == StatusTemporaryWeakness {
			ok = g.ApplyTemporaryWeakness(eff.Element, eff.Duration)
		} else {
			ok = g.ApplyStatus(eff.Status, amount, eff.Duration)
		}
		if !ok {
			rs.Skip(fmt.Sprintf("%s resists %s", g.Name(), eff.Status))
			continue
		}
		rs.Log(log.NewStatusAppliedEvent(rs.Turn(), rs.Phase(), rs.Source.ID, rs.Card.Name, g.Name(), string(eff.Status), amount))
	}
}

func applyRemoveStatus(rs *Resolution, eff SpellEffect) {
	targets := rs.godTargets(eff)
	if len(targets) == 0 {
		rs.Skip("no valid target")
		return
	}
	for _, g := range targets {
		removed := g.RemoveStatus(eff.Status, eff.Value)
		if eff.Status == StatusLightningMark {
			rs.markBonus += MarkBonus * removed
		}
		rs.Log(log.NewStatusRemovedEvent(rs.Turn(), rs.Phase(), rs.Source.ID, rs.Card.Name, g.Name(), string(eff.Status), removed))
	}
}

func applyEnergy(rs *Resolution, eff SpellEffect) {
	p := rs.playerTarget(eff)
	old := p.Energy
	p.AddEnergy(eff.Value)
	rs.Log(log.NewEnergyChangeEvent(rs.Turn(), rs.Phase(), p.ID, old, p.Energy, rs.Card.Name))
}

func applyDraw(rs *Resolution, eff SpellEffect) {
	p := rs.playerTarget(eff)
	n := min(eff.Value, MaxHandSize-len(p.Hand))
	if n <= 0 {
		rs.Skip("hand is full")
		return
	}
	rs.Draw(p, n, false)
}

func applyDiscard(rs *Resolution, eff SpellEffect) {
	p := rs.playerTarget(eff)
	if len(p.Hand) == 0 {
		rs.Skip("hand is empty")
		return
	}
	picked := rs.deck.Pick(len(p.Hand), max(eff.Value, 1))
	slices.Sort(picked)
	for i := len(picked) - 1; i >= 0; i-- {
		c := p.RemoveFromHand(picked[i])
		p.SendToDiscard(c)
		rs.Log(log.NewDiscardEvent(rs.Turn(), rs.Phase(), p.ID, c.Name))
	}
}

func applyMill(rs *Resolution, eff SpellEffect) {
	p := rs.playerTarget(eff)
	rs.Mill(p, eff.Value)
}

func applyCustom(rs *Resolution, eff SpellEffect) {
	fn, ok := rs.resolver.custom.Lookup(eff.CustomID)
	if !ok {
		rs.Skip(fmt.Sprintf("unknown custom effect %q", eff.CustomID))
		return
	}
	fn(rs, eff, rs.godTargets(eff))
}
