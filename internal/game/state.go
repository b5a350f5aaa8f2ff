package game

import (
	"time"
)

const (
	GodsPerPlayer   = 4
	MaxHandSize     = 5
	DefaultMaxTurns = 50
	ZombieHealth    = 5
	FirstEnergy     = 0
	SecondEnergy    = 1
)

// StatusEffectInstance is one typed status mark on a god.
type StatusEffectInstance struct {
	Kind     StatusKind `json:"kind"`
	Stacks   int        `json:"stacks"`
	Duration int        `json:"duration,omitempty"` // 0 = until removed
}

// GodState is the per-match state of one god.
type GodState struct {
	Card              *GodCard               `json:"card"`
	CurrentHealth     int                    `json:"currentHealth"`
	Statuses          []StatusEffectInstance `json:"statuses,omitempty"`
	IsDead            bool                   `json:"isDead"`
	TemporaryWeakness Element                `json:"temporaryWeakness,omitempty"`
	IsZombie          bool                   `json:"isZombie,omitempty"`
	ZombieCardID      string                 `json:"zombieCardId,omitempty"`
}

// ID returns the id of the god's card.
func (g *GodState) ID() string {
	return g.Card.ID
}

// Name returns the display name of the god.
func (g *GodState) Name() string {
	return g.Card.Name
}

// Alive reports whether the god can still act and be targeted.
func (g *GodState) Alive() bool {
	return !g.IsDead
}

// EffectiveWeakness returns the temporary override if any, else the base weakness.
func (g *GodState) EffectiveWeakness() Element {
	if g.TemporaryWeakness != "" {
		return g.TemporaryWeakness
	}
	return g.Card.Weakness
}

func (g *GodState) clone() *GodState {
	cp := *g
	if g.Statuses != nil {
		cp.Statuses = append([]StatusEffectInstance(nil), g.Statuses...)
	}
	return &cp
}

// PlayerState represents one player's side of a match.
type PlayerState struct {
	ID                    string       `json:"id"`
	Gods                  []*GodState  `json:"gods"`
	Hand                  []*SpellCard `json:"hand"`
	Deck                  []*SpellCard `json:"deck"` // top of deck is last element
	Discard               []*SpellCard `json:"discard"`
	RemovedCards          []*SpellCard `json:"removedCards"`
	Energy                int          `json:"energy"`
	HasPlayedCard         bool         `json:"hasPlayedCard"`
	HasDiscardedForEnergy bool         `json:"hasDiscardedForEnergy"`
	FatigueCounter        int          `json:"fatigueCounter"`
}

// God returns the god with the given card id, or nil.
func (p *PlayerState) God(godID string) *GodState {
	for _, g := range p.Gods {
		if g.Card.ID == godID {
			return g
		}
	}
	return nil
}

// LivingGods returns all gods that are not dead, zombies included.
func (p *PlayerState) LivingGods() []*GodState {
	var result []*GodState
	for _, g := range p.Gods {
		if g.Alive() {
			result = append(result, g)
		}
	}
	return result
}

// AllDead reports whether every god of the player is dead.
func (p *PlayerState) AllDead() bool {
	return len(p.LivingGods()) == 0
}

// TotalHealth sums the health of living gods.
func (p *PlayerState) TotalHealth() int {
	total := 0
	for _, g := range p.LivingGods() {
		total += g.CurrentHealth
	}
	return total
}

// HandCard returns the hand card with the given instance id and its index.
func (p *PlayerState) HandCard(instanceID int) (*SpellCard, int) {
	for i, c := range p.Hand {
		if c.InstanceID == instanceID {
			return c, i
		}
	}
	return nil, -1
}

// RemoveFromHand removes the card at index i and returns it.
func (p *PlayerState) RemoveFromHand(i int) *SpellCard {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	c.HiddenFromOwner = false
	c.RevealedTo = ""
	return c
}

// SendToDiscard puts a card on the discard pile.
func (p *PlayerState) SendToDiscard(c *SpellCard) {
	c.HiddenFromOwner = false
	c.RevealedTo = ""
	p.Discard = append(p.Discard, c)
}

// AddEnergy changes energy by delta, never below zero. Returns the new value.
func (p *PlayerState) AddEnergy(delta int) int {
	p.Energy += delta
	if p.Energy < 0 {
		p.Energy = 0
	}
	return p.Energy
}

// purgeGodCards moves every hand/deck/discard card of godID into RemovedCards.
func (p *PlayerState) purgeGodCards(godID string) int {
	removed := 0
	filter := func(cards []*SpellCard) []*SpellCard {
		kept := cards[:0:0]
		for _, c := range cards {
			if c.GodID == godID {
				c.HiddenFromOwner = false
				c.RevealedTo = ""
				p.RemovedCards = append(p.RemovedCards, c)
				removed++
				continue
			}
			kept = append(kept, c)
		}
		return kept
	}
	p.Hand = filter(p.Hand)
	p.Deck = filter(p.Deck)
	p.Discard = filter(p.Discard)
	return removed
}

func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.Gods = make([]*GodState, len(p.Gods))
	for i, g := range p.Gods {
		cp.Gods[i] = g.clone()
	}
	cp.Hand = cloneCards(p.Hand)
	cp.Deck = cloneCards(p.Deck)
	cp.Discard = cloneCards(p.Discard)
	cp.RemovedCards = cloneCards(p.RemovedCards)
	return &cp
}

func cloneCards(cards []*SpellCard) []*SpellCard {
	if cards == nil {
		return nil
	}
	out := make([]*SpellCard, len(cards))
	for i, c := range cards {
		out[i] = c.clone()
	}
	return out
}

// GameState is the full state of one match and the unit of synchronization.
type GameState struct {
	ID              string          `json:"id"`
	Status          GameStatus      `json:"status"`
	Phase           Phase           `json:"phase"`
	CurrentPlayerID string          `json:"currentPlayerId"`
	TurnNumber      int             `json:"turnNumber"`
	Players         [2]*PlayerState `json:"players"`
	WinnerID        string          `json:"winnerId,omitempty"`
	IsDraw          bool            `json:"isDraw,omitempty"`
	MaxTurns        int             `json:"maxTurns"`
	NextInstanceID  int             `json:"nextInstanceId"`
	// Seq increases with every authoritative snapshot; receivers drop anything not newer.
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Player returns the player with the given id, or nil.
func (gs *GameState) Player(id string) *PlayerState {
	for _, p := range gs.Players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other player.
func (gs *GameState) Opponent(id string) *PlayerState {
	for _, p := range gs.Players {
		if p != nil && p.ID != id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *PlayerState {
	return gs.Player(gs.CurrentPlayerID)
}

// Over reports whether the match has finished.
func (gs *GameState) Over() bool {
	return gs.Status == StatusFinished
}

// NextID allocates a match-unique card instance id.
func (gs *GameState) NextID() int {
	gs.NextInstanceID++
	return gs.NextInstanceID
}

// Clone returns a deep copy of the state. Card definitions referenced by gods are shared.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	cp := *gs
	for i, p := range gs.Players {
		if p != nil {
			cp.Players[i] = p.clone()
		}
	}
	return &cp
}
