package game

// HiddenCardID marks a card whose contents are not visible to the viewer.
const HiddenCardID = "hidden"

func hiddenCard(c *SpellCard) *SpellCard {
	return &SpellCard{ID: HiddenCardID, Name: "Hidden card", InstanceID: c.InstanceID, HiddenFromOwner: c.HiddenFromOwner}
}

// ViewFor returns a copy of the state as playerID may see it: decks are face
// down, the opponent's hand is hidden unless revealed, and the viewer's own
// blind cards stay hidden.
func (gs *GameState) ViewFor(playerID string) *GameState {
	view := gs.Clone()
	for _, p := range view.Players {
		for i, c := range p.Deck {
			p.Deck[i] = hiddenCard(c)
		}
		for i, c := range p.Hand {
			if !CanSee(c, p.ID, playerID) {
				p.Hand[i] = hiddenCard(c)
			}
		}
	}
	return view
}

// CanSee reports whether playerID may look at a card in owner's hand.
func CanSee(c *SpellCard, ownerID, playerID string) bool {
	if ownerID == playerID {
		return !c.HiddenFromOwner
	}
	return c.RevealedTo == playerID
}
