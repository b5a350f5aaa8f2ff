package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/pantheon/internal/log"
)

// ControllerConfig configures a TurnController. Zero values pick defaults.
type ControllerConfig struct {
	Shuffler Shuffler
	Custom   *CustomEffects
	MaxTurns int
	Now      func() time.Time
}

// TurnController drives a match: draw → main → end, then the other player.
// Every method takes a state and returns a new one; the input is never modified.
type TurnController struct {
	deck     *DeckService
	resolver *Resolver
	maxTurns int
	now      func() time.Time
}

// NewTurnController creates a controller from cfg.
func NewTurnController(cfg ControllerConfig) *TurnController {
	deck := NewDeckService(cfg.Shuffler)
	tc := &TurnController{
		deck:     deck,
		resolver: NewResolver(deck, cfg.Custom),
		maxTurns: cfg.MaxTurns,
		now:      cfg.Now,
	}
	if tc.maxTurns <= 0 {
		tc.maxTurns = DefaultMaxTurns
	}
	if tc.now == nil {
		tc.now = time.Now
	}
	return tc
}

// Resolver exposes the controller's effect resolver.
func (tc *TurnController) Resolver() *Resolver {
	return tc.resolver
}

// PlayerSetup is one side of a new match.
type PlayerSetup struct {
	ID   string
	Gods []string
}

// MatchSetup describes a match about to start.
type MatchSetup struct {
	ID            string
	Host          PlayerSetup
	Guest         PlayerSetup
	FirstPlayerID string
	Catalog       *Catalog // nil uses DefaultCatalog
}

// NewMatch builds the initial state and runs the first player's draw phase.
// The first player starts with 0 energy, the second with 1.
func (tc *TurnController) NewMatch(setup MatchSetup) (*GameState, []log.GameEvent, error) {
	if setup.Host.ID == "" || setup.Guest.ID == "" || setup.Host.ID == setup.Guest.ID {
		return nil, nil, fmt.Errorf("%w: players need distinct ids", ErrUnknownPlayer)
	}
	if setup.FirstPlayerID != setup.Host.ID && setup.FirstPlayerID != setup.Guest.ID {
		return nil, nil, fmt.Errorf("%w: first player %q", ErrUnknownPlayer, setup.FirstPlayerID)
	}
	catalog := setup.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	now := tc.now()
	gs := &GameState{
		ID:              setup.ID,
		Status:          StatusPlaying,
		Phase:           PhaseDraw,
		CurrentPlayerID: setup.FirstPlayerID,
		TurnNumber:      1,
		MaxTurns:        tc.maxTurns,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if gs.ID == "" {
		gs.ID = uuid.NewString()
	}
	for i, ps := range []PlayerSetup{setup.Host, setup.Guest} {
		p, err := tc.newPlayer(gs, catalog, ps)
		if err != nil {
			return nil, nil, fmt.Errorf("player %s: %w", ps.ID, err)
		}
		p.Energy = SecondEnergy
		if ps.ID == setup.FirstPlayerID {
			p.Energy = FirstEnergy
		}
		gs.Players[i] = p
	}

	st := &step{gs: gs, deck: tc.deck}
	tc.startTurn(st)
	return gs, st.events, nil
}

func (tc *TurnController) newPlayer(gs *GameState, catalog *Catalog, ps PlayerSetup) (*PlayerState, error) {
	gods, err := catalog.Team(ps.Gods)
	if err != nil {
		return nil, err
	}
	p := &PlayerState{ID: ps.ID}
	for _, g := range gods {
		p.Gods = append(p.Gods, &GodState{Card: g, CurrentHealth: g.MaxHealth})
		for _, s := range catalog.SpellsFor(g.ID) {
			p.Deck = append(p.Deck, s.instance(gs.NextID()))
		}
	}
	tc.deck.Shuffle(p.Deck)
	return p, nil
}

// StartTurn runs the draw phase of the current player: reset per-turn flags and
// draw up to MaxHandSize.
func (tc *TurnController) StartTurn(gs *GameState) (*GameState, []log.GameEvent) {
	next := gs.Clone()
	st := &step{gs: next, deck: tc.deck}
	tc.startTurn(st)
	tc.touch(next)
	return next, st.events
}

func (tc *TurnController) startTurn(st *step) {
	gs := st.gs
	p := gs.CurrentPlayer()
	p.HasPlayedCard = false
	p.HasDiscardedForEnergy = false
	gs.Phase = PhaseDraw
	st.log(log.NewTurnEvent(gs.TurnNumber, p.ID))
	st.draw(p, MaxHandSize-len(p.Hand), false)
	if tc.finishIfDecided(st) {
		return
	}
	st.setPhase(PhaseMain)
}

// checkAction verifies that playerID may act in the main phase of gs.
func checkAction(gs *GameState, playerID string) (*PlayerState, error) {
	switch gs.Status {
	case StatusFinished:
		return nil, ErrGameOver
	case StatusWaiting:
		return nil, ErrNotStarted
	}
	p := gs.Player(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if gs.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	if gs.Phase != PhaseMain {
		return nil, ErrWrongPhase
	}
	return p, nil
}

// CanPlay reports why playerID could not play the given hand card, or nil.
func CanPlay(gs *GameState, playerID string, instanceID int) error {
	p, err := checkAction(gs, playerID)
	if err != nil {
		return err
	}
	card, _ := p.HandCard(instanceID)
	if card == nil {
		return ErrCardNotInHand
	}
	if p.HasPlayedCard {
		return ErrAlreadyPlayed
	}
	if card.Cost > p.Energy {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientEnergy, card.Name, card.Cost, p.Energy)
	}
	god := p.God(card.GodID)
	if god == nil || god.IsDead {
		return ErrGodDead
	}
	if god.HasStatus(StatusStun) {
		return fmt.Errorf("%w: %s", ErrGodStunned, god.Name())
	}
	return nil
}

// PlayCard pays for a hand card, gains its energy and resolves its effects.
func (tc *TurnController) PlayCard(gs *GameState, playerID string, instanceID int, targets []TargetChoice) (*GameState, []log.GameEvent, error) {
	if err := CanPlay(gs, playerID, instanceID); err != nil {
		return nil, nil, err
	}
	card, _ := gs.Player(playerID).HandCard(instanceID)
	if err := ValidateTargets(gs, playerID, card, targets); err != nil {
		return nil, nil, err
	}

	next := gs.Clone()
	st := &step{gs: next, deck: tc.deck}
	p := next.Player(playerID)
	_, idx := p.HandCard(instanceID)
	card = p.RemoveFromHand(idx)
	p.Energy -= card.Cost
	p.AddEnergy(card.EnergyGain)
	p.HasPlayedCard = true
	st.log(log.NewPlayCardEvent(next.TurnNumber, st.phase(), p.ID, card.Name, card.Cost, card.EnergyGain))

	tc.resolver.resolve(st, playerID, card, targets)

	if god := p.God(card.GodID); god == nil || god.IsDead {
		p.RemovedCards = append(p.RemovedCards, card)
	} else {
		p.SendToDiscard(card)
	}
	tc.finishIfDecided(st)
	tc.touch(next)
	return next, st.events, nil
}

// DiscardForEnergy discards a hand card for +1 energy, once per turn.
func (tc *TurnController) DiscardForEnergy(gs *GameState, playerID string, instanceID int) (*GameState, []log.GameEvent, error) {
	p, err := checkAction(gs, playerID)
	if err != nil {
		return nil, nil, err
	}
	if card, _ := p.HandCard(instanceID); card == nil {
		return nil, nil, ErrCardNotInHand
	}
	if p.HasDiscardedForEnergy {
		return nil, nil, ErrAlreadyDiscarded
	}

	next := gs.Clone()
	st := &step{gs: next, deck: tc.deck}
	p = next.Player(playerID)
	_, idx := p.HandCard(instanceID)
	card := p.RemoveFromHand(idx)
	p.SendToDiscard(card)
	p.AddEnergy(1)
	p.HasDiscardedForEnergy = true
	st.log(log.NewDiscardForEnergyEvent(next.TurnNumber, st.phase(), p.ID, card.Name, p.Energy))
	tc.touch(next)
	return next, st.events, nil
}

// ZombiePing is the owner's choice of target for one zombie's end-of-turn bite.
type ZombiePing struct {
	ZombieGodID string `json:"zombieGodId"`
	TargetGodID string `json:"targetGodId"`
}

// EndTurn ticks statuses of the ending player's gods, runs zombie pings, checks
// for a winner and hands the turn over. Zombies without a ping are skipped.
func (tc *TurnController) EndTurn(gs *GameState, playerID string, pings []ZombiePing) (*GameState, []log.GameEvent, error) {
	p, err := checkAction(gs, playerID)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePings(p, gs.Opponent(playerID), pings); err != nil {
		return nil, nil, err
	}

	next := gs.Clone()
	st := &step{gs: next, deck: tc.deck}
	p = next.Player(playerID)
	opp := next.Opponent(playerID)
	st.setPhase(PhaseEnd)

	for _, g := range p.LivingGods() {
		if dmg := g.TickEndOfTurn(); dmg > 0 {
			st.log(log.NewStatusTickEvent(next.TurnNumber, p.ID, g.Name(), dmg))
		}
	}
	st.sweepDeaths()

	for _, ping := range pings {
		z, target := p.God(ping.ZombieGodID), opp.God(ping.TargetGodID)
		if z.IsDead || !z.IsZombie || target.IsDead {
			continue
		}
		_, dealt := target.TakeDamage(1)
		st.log(log.NewZombiePingEvent(next.TurnNumber, p.ID, z.Name(), target.Name(), dealt))
		st.sweepDeaths()
	}

	if !tc.finishIfDecided(st) {
		if next.TurnNumber >= next.MaxTurns {
			tc.finishByTurnLimit(st)
		} else {
			next.CurrentPlayerID = opp.ID
			next.TurnNumber++
			tc.startTurn(st)
		}
	}
	tc.touch(next)
	return next, st.events, nil
}

func validatePings(p, opp *PlayerState, pings []ZombiePing) error {
	seen := make(map[string]bool)
	for _, ping := range pings {
		z := p.God(ping.ZombieGodID)
		if z == nil || z.IsDead || !z.IsZombie || seen[ping.ZombieGodID] {
			return fmt.Errorf("%w: %q is not a zombie", ErrInvalidTarget, ping.ZombieGodID)
		}
		seen[ping.ZombieGodID] = true
		if t := opp.God(ping.TargetGodID); t == nil || t.IsDead {
			return fmt.Errorf("%w: %q", ErrInvalidTarget, ping.TargetGodID)
		}
	}
	return nil
}

// Outcome is the result of a win check.
type Outcome struct {
	Over     bool
	WinnerID string
	Draw     bool
	Reason   string
}

// CheckWinner decides the match if either side has no living god.
func CheckWinner(gs *GameState) Outcome {
	a, b := gs.Players[0], gs.Players[1]
	aDead, bDead := a.AllDead(), b.AllDead()
	switch {
	case aDead && bDead:
		return Outcome{Over: true, Draw: true, Reason: "every god has fallen"}
	case aDead:
		return Outcome{Over: true, WinnerID: b.ID, Reason: "all opposing gods defeated"}
	case bDead:
		return Outcome{Over: true, WinnerID: a.ID, Reason: "all opposing gods defeated"}
	}
	return Outcome{}
}

// TurnLimitOutcome compares living gods, then total health, else declares a draw.
func TurnLimitOutcome(gs *GameState) Outcome {
	a, b := gs.Players[0], gs.Players[1]
	la, lb := len(a.LivingGods()), len(b.LivingGods())
	switch {
	case la > lb:
		return Outcome{Over: true, WinnerID: a.ID, Reason: "turn limit: more living gods"}
	case lb > la:
		return Outcome{Over: true, WinnerID: b.ID, Reason: "turn limit: more living gods"}
	}
	ha, hb := a.TotalHealth(), b.TotalHealth()
	switch {
	case ha > hb:
		return Outcome{Over: true, WinnerID: a.ID, Reason: "turn limit: more total health"}
	case hb > ha:
		return Outcome{Over: true, WinnerID: b.ID, Reason: "turn limit: more total health"}
	}
	return Outcome{Over: true, Draw: true, Reason: "turn limit"}
}

func (tc *TurnController) finishIfDecided(st *step) bool {
	o := CheckWinner(st.gs)
	if !o.Over {
		return false
	}
	finish(st, o)
	return true
}

func (tc *TurnController) finishByTurnLimit(st *step) {
	finish(st, TurnLimitOutcome(st.gs))
}

func finish(st *step, o Outcome) {
	gs := st.gs
	gs.Status = StatusFinished
	gs.WinnerID = o.WinnerID
	gs.IsDraw = o.Draw
	if o.Draw {
		st.log(log.NewDrawGameEvent(gs.TurnNumber, st.phase(), o.Reason))
		return
	}
	st.log(log.NewWinEvent(gs.TurnNumber, st.phase(), o.WinnerID, o.Reason))
}

func (tc *TurnController) touch(gs *GameState) {
	gs.UpdatedAt = tc.now()
}

// IsRulesViolation reports whether err came from rejecting an action.
func IsRulesViolation(err error) bool {
	for _, target := range []error{
		ErrNotStarted, ErrGameOver, ErrNotYourTurn, ErrWrongPhase, ErrUnknownPlayer,
		ErrCardNotInHand, ErrAlreadyPlayed, ErrAlreadyDiscarded, ErrInsufficientEnergy,
		ErrGodStunned, ErrGodDead, ErrInvalidTarget, ErrMustTargetProvoker,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
