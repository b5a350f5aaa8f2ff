package mcp

import (
	"fmt"

	"github.com/peterkuimelis/pantheon/internal/game"
	"github.com/peterkuimelis/pantheon/internal/log"
)

// StateView is the match from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	Status     string     `json:"status"`
	IsYourTurn bool       `json:"is_your_turn"`
	Winner     string     `json:"winner,omitempty"`
	Draw       bool       `json:"draw,omitempty"`
	Seq        int64      `json:"seq"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	ID             string     `json:"id"`
	Energy         int        `json:"energy"`
	HandCount      int        `json:"hand_count"`
	Hand           []CardView `json:"hand,omitempty"` // only for "you"
	DeckCount      int        `json:"deck_count"`
	DiscardCount   int        `json:"discard_count"`
	HasPlayedCard  bool       `json:"has_played_card"`
	HasDiscarded   bool       `json:"has_discarded"`
	FatigueCounter int        `json:"fatigue_counter,omitempty"`
	Gods           []GodView  `json:"gods"`
}

// GodView describes a single god on the board.
type GodView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Element  string   `json:"element"`
	Weakness string   `json:"weakness"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Dead     bool     `json:"dead,omitempty"`
	Zombie   bool     `json:"zombie,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
}

// CardView is a hand card. Index is the 1-based hand position the tools take.
type CardView struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	God         string `json:"god,omitempty"`
	Cost        int    `json:"cost"`
	EnergyGain  int    `json:"energy_gain,omitempty"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// EventView is a simplified game event.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  string `json:"player,omitempty"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// BuildStateView creates a StateView from the perspective of playerID. The
// state should already be redacted with GameState.ViewFor.
func BuildStateView(gs *game.GameState, playerID string) *StateView {
	me, opp := gs.Player(playerID), gs.Opponent(playerID)
	if me == nil || opp == nil {
		return nil
	}
	sv := &StateView{
		Turn:       gs.TurnNumber,
		Phase:      string(gs.Phase),
		Status:     string(gs.Status),
		IsYourTurn: gs.Status == game.StatusPlaying && gs.CurrentPlayerID == playerID,
		Winner:     gs.WinnerID,
		Draw:       gs.IsDraw,
		Seq:        gs.Seq,
		You:        playerView(me),
		Opponent:   playerView(opp),
	}
	for i, c := range me.Hand {
		sv.You.Hand = append(sv.You.Hand, cardView(i+1, c))
	}
	return sv
}

func playerView(p *game.PlayerState) PlayerView {
	pv := PlayerView{
		ID:             p.ID,
		Energy:         p.Energy,
		HandCount:      len(p.Hand),
		DeckCount:      len(p.Deck),
		DiscardCount:   len(p.Discard),
		HasPlayedCard:  p.HasPlayedCard,
		HasDiscarded:   p.HasDiscardedForEnergy,
		FatigueCounter: p.FatigueCounter,
	}
	for _, g := range p.Gods {
		pv.Gods = append(pv.Gods, godView(g))
	}
	return pv
}

func godView(g *game.GodState) GodView {
	gv := GodView{
		ID:       g.ID(),
		Name:     g.Name(),
		Element:  string(g.Card.Element),
		Weakness: string(g.EffectiveWeakness()),
		HP:       g.CurrentHealth,
		MaxHP:    g.Card.MaxHealth,
		Dead:     g.IsDead,
		Zombie:   g.IsZombie,
	}
	for _, st := range g.Statuses {
		s := string(st.Kind)
		if st.Stacks > 1 {
			s = fmt.Sprintf("%s x%d", s, st.Stacks)
		}
		if st.Duration > 0 {
			s = fmt.Sprintf("%s (%d turns)", s, st.Duration)
		}
		gv.Statuses = append(gv.Statuses, s)
	}
	return gv
}

func cardView(index int, c *game.SpellCard) CardView {
	if c.ID == game.HiddenCardID {
		return CardView{Index: index, Name: c.Name, Hidden: true}
	}
	return CardView{
		Index:       index,
		Name:        c.Name,
		God:         c.GodID,
		Cost:        c.Cost,
		EnergyGain:  c.EnergyGain,
		Description: c.Description,
	}
}

func eventView(e log.GameEvent) EventView {
	return EventView{
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}
