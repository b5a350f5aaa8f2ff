package game

import (
	"github.com/peterkuimelis/pantheon/internal/log"
)

// MarkBonus is the extra damage granted per lightning mark removed.
const MarkBonus = 2

// TargetChoice is a concrete target picked by the player for a single-target selector.
type TargetChoice struct {
	Selector TargetSelector `json:"selector"`
	PlayerID string         `json:"playerId,omitempty"`
	GodID    string         `json:"godId"`
}

// step accumulates log entries while mutating a working copy of the state.
type step struct {
	gs     *GameState
	deck   *DeckService
	events []log.GameEvent
}

func (s *step) log(e log.GameEvent) {
	s.events = append(s.events, e)
}

func (s *step) turn() int     { return s.gs.TurnNumber }
func (s *step) phase() string { return string(s.gs.Phase) }

func (s *step) setPhase(p Phase) {
	s.gs.Phase = p
	s.log(log.NewPhaseChangeEvent(s.turn(), string(p)))
}

// draw draws for p, applying fatigue immediately if the deck had to be reshuffled.
func (s *step) draw(p *PlayerState, n int, hidden bool) []*SpellCard {
	if n <= 0 {
		return nil
	}
	res := s.deck.Draw(p, n, hidden)
	for _, c := range res.Cards {
		s.log(log.NewDrawEvent(s.turn(), s.phase(), p.ID, c.Name, hidden))
	}
	s.fatigue(p, res)
	return res.Cards
}

func (s *step) mill(p *PlayerState, n int) int {
	if n <= 0 {
		return 0
	}
	res := s.deck.Mill(p, n)
	if len(res.Cards) > 0 {
		s.log(log.NewMillEvent(s.turn(), s.phase(), p.ID, len(res.Cards)))
	}
	s.fatigue(p, res)
	return len(res.Cards)
}

func (s *step) fatigue(p *PlayerState, res DrawResult) {
	if res.Fatigue == 0 {
		return
	}
	s.log(log.NewShuffleEvent(s.turn(), s.phase(), p.ID, res.Reshuffled))
	s.log(log.NewFatigueEvent(s.turn(), s.phase(), p.ID, res.Fatigue))
	for _, g := range p.LivingGods() {
		g.LoseHealth(res.Fatigue)
	}
	s.sweepDeaths()
}

// sweepDeaths marks every god at or below 0 health dead and removes its cards from play.
func (s *step) sweepDeaths() {
	for _, p := range s.gs.Players {
		for _, g := range p.Gods {
			if g.IsDead || g.CurrentHealth > 0 {
				continue
			}
			g.IsDead = true
			g.CurrentHealth = 0
			g.Statuses = nil
			g.TemporaryWeakness = ""
			g.IsZombie = false
			g.ZombieCardID = ""
			s.log(log.NewGodDeathEvent(s.turn(), s.phase(), p.ID, g.Name()))
			if n := p.purgeGodCards(g.ID()); n > 0 {
				s.log(log.NewCardsRemovedEvent(s.turn(), s.phase(), p.ID, g.Name(), n))
			}
		}
	}
}

// Resolver runs a card's effects in order against a game state.
type Resolver struct {
	deck   *DeckService
	custom *CustomEffects
}

// NewResolver creates a resolver. Nil arguments use the default deck service and
// the package-level custom effect registry.
func NewResolver(deck *DeckService, custom *CustomEffects) *Resolver {
	if deck == nil {
		deck = NewDeckService(nil)
	}
	if custom == nil {
		custom = defaultCustomEffects
	}
	return &Resolver{deck: deck, custom: custom}
}

// Resolve applies card on behalf of sourcePlayerID to a copy of gs. The input is
// never modified. Effects with no valid target are skipped, never fatal.
func (r *Resolver) Resolve(gs *GameState, sourcePlayerID string, card *SpellCard, targets []TargetChoice) (*GameState, []log.GameEvent) {
	next := gs.Clone()
	st := &step{gs: next, deck: r.deck}
	r.resolve(st, sourcePlayerID, card, targets)
	return next, st.events
}

func (r *Resolver) resolve(st *step, sourcePlayerID string, card *SpellCard, targets []TargetChoice) {
	source := st.gs.Player(sourcePlayerID)
	opponent := st.gs.Opponent(sourcePlayerID)
	if source == nil || opponent == nil {
		return
	}
	rs := &Resolution{
		step:     st,
		resolver: r,
		State:    st.gs,
		Source:   source,
		Opponent: opponent,
		Card:     card,
		choices:  targets,
		overheal: card.GrantsShield(),
	}
	for _, eff := range card.Effects {
		effectHandlers[eff.Kind](rs, eff)
		st.sweepDeaths()
	}
	for _, p := range st.gs.Players {
		for _, g := range p.Gods {
			if !g.IsDead {
				g.clampOverheal()
			}
		}
	}
}

// Resolution is the context of one card being resolved. Custom effects receive it.
type Resolution struct {
	*step
	resolver *Resolver

	State    *GameState
	Source   *PlayerState
	Opponent *PlayerState
	Card     *SpellCard

	choices   []TargetChoice
	previous  []*GodState
	markBonus int
	overheal  bool
}

// Turn and Phase describe the current point of the match for log entries.
func (rs *Resolution) Turn() int     { return rs.turn() }
func (rs *Resolution) Phase() string { return rs.phase() }

// Log appends an entry to the action history.
func (rs *Resolution) Log(e log.GameEvent) {
	rs.log(e)
}

// Skip records that the current effect did nothing.
func (rs *Resolution) Skip(reason string) {
	rs.log(log.NewSkippedEvent(rs.turn(), rs.phase(), rs.Source.ID, rs.Card.Name, reason))
}

// SourceGod returns the god the card belongs to.
func (rs *Resolution) SourceGod() *GodState {
	return rs.Source.God(rs.Card.GodID)
}

// Damage deals amount of the card's element to target. Returns health lost.
func (rs *Resolution) Damage(target *GodState, amount int) int {
	return rs.DamageAs(target, amount, rs.Card.Element)
}

// DamageAs deals amount of element el: weakness multiplier, then shield, then health.
func (rs *Resolution) DamageAs(target *GodState, amount int, el Element) int {
	if target == nil || target.IsDead || amount <= 0 {
		return 0
	}
	mult := DamageMultiplier(el, target.EffectiveWeakness())
	absorbed, dealt := target.TakeDamage(amount * mult)
	rs.log(log.NewDamageEvent(rs.turn(), rs.phase(), rs.Source.ID, rs.Card.Name, target.Name(), dealt, absorbed, mult > 1))
	return dealt
}

// Heal restores health, allowing overheal only when the card also grants shield.
func (rs *Resolution) Heal(target *GodState, amount int) int {
	if target == nil || target.IsDead {
		return 0
	}
	oldHP, newHP := target.Heal(amount, rs.overheal)
	rs.log(log.NewHealEvent(rs.turn(), rs.phase(), rs.Source.ID, rs.Card.Name, target.Name(), oldHP, newHP))
	return newHP - oldHP
}

// Draw draws n cards for p. Hidden cards may exceed the hand limit.
func (rs *Resolution) Draw(p *PlayerState, n int, hidden bool) []*SpellCard {
	return rs.draw(p, n, hidden)
}

// Mill mills n cards from p's deck and returns how many were milled.
func (rs *Resolution) Mill(p *PlayerState, n int) int {
	return rs.mill(p, n)
}

func (rs *Resolution) element(eff SpellEffect) Element {
	if eff.Element != "" && eff.Kind == EffectDamage {
		return eff.Element
	}
	return rs.Card.Element
}

// playerTarget resolves player-level effects: enemy selectors hit the opponent.
func (rs *Resolution) playerTarget(eff SpellEffect) *PlayerState {
	if eff.Target.TargetsEnemy() {
		return rs.Opponent
	}
	return rs.Source
}

func defaultTarget(kind EffectKind) TargetSelector {
	switch kind {
	case EffectDamage, EffectStatus:
		return TargetEnemyGod
	case EffectCustom:
		return TargetNone
	default:
		return TargetSelf
	}
}

// godTargets resolves an effect's selector to concrete gods.
func (rs *Resolution) godTargets(eff SpellEffect) []*GodState {
	sel := eff.Target
	if sel == TargetNone {
		sel = defaultTarget(eff.Kind)
	}

	var targets []*GodState
	switch sel {
	case TargetSame:
		targets = rs.previous
	case TargetEnemyGod:
		targets = single(rs.enemyGod())
	case TargetAllEnemies:
		targets = rs.Opponent.LivingGods()
	case TargetAllyGod:
		targets = single(rs.chosen(sel, rs.Source, false))
	case TargetAllAllies:
		targets = rs.Source.LivingGods()
	case TargetSelf:
		if g := rs.SourceGod(); g != nil && !g.IsDead {
			targets = single(g)
		}
	case TargetAnyGod:
		g := rs.chosen(sel, rs.Source, false)
		if g == nil {
			g = rs.chosen(sel, rs.Opponent, false)
		}
		targets = single(g)
	case TargetAllGods:
		targets = append(rs.Source.LivingGods(), rs.Opponent.LivingGods()...)
	case TargetDeadAllyGod:
		targets = single(rs.chosen(sel, rs.Source, true))
	}

	var live []*GodState
	for _, g := range targets {
		if g.IsDead && sel != TargetDeadAllyGod {
			continue
		}
		live = append(live, g)
	}
	if sel != TargetSame {
		rs.previous = live
	}
	if eff.RequireStatus == "" {
		return live
	}
	var out []*GodState
	for _, g := range live {
		if g.HasStatus(eff.RequireStatus) {
			out = append(out, g)
		}
	}
	return out
}

// enemyGod returns the chosen enemy, redirected to a provoking god when one exists.
func (rs *Resolution) enemyGod() *GodState {
	chosen := rs.chosen(TargetEnemyGod, rs.Opponent, false)
	if chosen != nil && chosen.HasStatus(StatusProvocation) {
		return chosen
	}
	if provoker := provokingGod(rs.Opponent); provoker != nil {
		return provoker
	}
	return chosen
}

// chosen finds the player's choice for sel among owner's gods. Without a choice
// the only candidate is taken.
func (rs *Resolution) chosen(sel TargetSelector, owner *PlayerState, dead bool) *GodState {
	for _, c := range rs.choices {
		if c.Selector != sel && c.Selector != TargetNone {
			continue
		}
		if c.PlayerID != "" && c.PlayerID != owner.ID {
			continue
		}
		if g := owner.God(c.GodID); g != nil && g.IsDead == dead {
			return g
		}
	}
	if sel == TargetAnyGod {
		return nil
	}
	var candidates []*GodState
	for _, g := range owner.Gods {
		if g.IsDead == dead {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return nil
}

func provokingGod(p *PlayerState) *GodState {
	for _, g := range p.LivingGods() {
		if g.HasStatus(StatusProvocation) {
			return g
		}
	}
	return nil
}

func single(g *GodState) []*GodState {
	if g == nil {
		return nil
	}
	return []*GodState{g}
}

// ValidateTargets checks player-supplied choices for card before it is played.
func ValidateTargets(gs *GameState, playerID string, card *SpellCard, targets []TargetChoice) error {
	source := gs.Player(playerID)
	opponent := gs.Opponent(playerID)
	if source == nil || opponent == nil {
		return ErrUnknownPlayer
	}
	for _, c := range targets {
		switch c.Selector {
		case TargetEnemyGod:
			g := opponent.God(c.GodID)
			if g == nil || g.IsDead {
				return ErrInvalidTarget
			}
			if p := provokingGod(opponent); p != nil && !g.HasStatus(StatusProvocation) {
				return ErrMustTargetProvoker
			}
		case TargetAllyGod:
			if g := source.God(c.GodID); g == nil || g.IsDead {
				return ErrInvalidTarget
			}
		case TargetDeadAllyGod:
			if g := source.God(c.GodID); g == nil || !g.IsDead {
				return ErrInvalidTarget
			}
		case TargetAnyGod:
			owner := gs.Player(c.PlayerID)
			if owner == nil {
				return ErrInvalidTarget
			}
			if g := owner.God(c.GodID); g == nil || g.IsDead {
				return ErrInvalidTarget
			}
		default:
			return ErrInvalidTarget
		}
		if !usesSelector(card, c.Selector) {
			return ErrInvalidTarget
		}
	}
	for _, eff := range card.Effects {
		sel := eff.Target
		if sel == TargetNone {
			sel = defaultTarget(eff.Kind)
		}
		if !sel.NeedsChoice() || hasChoice(targets, sel) {
			continue
		}
		if needed(sel, source, opponent) {
			return ErrInvalidTarget
		}
	}
	return nil
}

func hasChoice(targets []TargetChoice, sel TargetSelector) bool {
	for _, c := range targets {
		if c.Selector == sel {
			return true
		}
	}
	return false
}

// needed reports whether sel has more than one candidate, so the resolver
// cannot pick one without a choice. No candidate at all just skips the effect.
func needed(sel TargetSelector, source, opponent *PlayerState) bool {
	switch sel {
	case TargetEnemyGod:
		return provokingGod(opponent) == nil && len(opponent.LivingGods()) > 1
	case TargetAllyGod:
		return len(source.LivingGods()) > 1
	case TargetDeadAllyGod:
		return len(source.Gods)-len(source.LivingGods()) > 1
	case TargetAnyGod:
		return len(source.LivingGods())+len(opponent.LivingGods()) > 0
	}
	return false
}

func usesSelector(card *SpellCard, sel TargetSelector) bool {
	for _, eff := range card.Effects {
		t := eff.Target
		if t == TargetNone {
			t = defaultTarget(eff.Kind)
		}
		if t == sel {
			return true
		}
	}
	return false
}
