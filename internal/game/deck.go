package game

import (
	"math/rand/v2"
)

// Shuffler produces a uniformly random permutation through swap calls.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DefaultShuffler draws from the runtime's global random source.
var DefaultShuffler Shuffler = globalShuffler{}

// NewSeededShuffler returns a reproducible shuffler, mainly for tests and replays.
func NewSeededShuffler(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DrawResult reports what a Draw or Mill call did.
type DrawResult struct {
	Cards      []*SpellCard
	Reshuffled int // cards moved from discard back into the deck
	Fatigue    int // fatigue damage owed to every living god, 0 if no reshuffle
}

// DeckService moves cards between a player's deck, hand and discard pile.
type DeckService struct {
	shuffler Shuffler
}

// NewDeckService creates a deck service. A nil shuffler uses DefaultShuffler.
func NewDeckService(s Shuffler) *DeckService {
	if s == nil {
		s = DefaultShuffler
	}
	return &DeckService{shuffler: s}
}

// Shuffle randomizes the order of cards in place.
func (ds *DeckService) Shuffle(cards []*SpellCard) {
	ds.shuffler.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Pick returns up to n distinct random indexes in [0, size).
func (ds *DeckService) Pick(size, n int) []int {
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	ds.shuffler.Shuffle(size, func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	return idx[:min(n, size)]
}

// Reshuffle moves the discard pile into the deck in random order and bumps the
// fatigue counter. It returns the fatigue damage, equal to the new counter.
func (ds *DeckService) Reshuffle(p *PlayerState) int {
	p.Deck = append(p.Deck, p.Discard...)
	p.Discard = nil
	ds.Shuffle(p.Deck)
	p.FatigueCounter++
	return p.FatigueCounter
}

// Draw moves up to n cards from the top of the deck into the hand. Hidden cards
// are placed face down for their owner. An empty deck triggers at most one
// reshuffle per call.
func (ds *DeckService) Draw(p *PlayerState, n int, hidden bool) DrawResult {
	var res DrawResult
	for range n {
		card, ok := ds.pop(p, &res)
		if !ok {
			break
		}
		card.HiddenFromOwner = hidden
		p.Hand = append(p.Hand, card)
		res.Cards = append(res.Cards, card)
	}
	return res
}

// Mill moves up to n cards from the top of the deck to the discard pile.
func (ds *DeckService) Mill(p *PlayerState, n int) DrawResult {
	var res DrawResult
	for range n {
		card, ok := ds.pop(p, &res)
		if !ok {
			break
		}
		p.Discard = append(p.Discard, card)
		res.Cards = append(res.Cards, card)
	}
	return res
}

func (ds *DeckService) pop(p *PlayerState, res *DrawResult) (*SpellCard, bool) {
	if len(p.Deck) == 0 {
		if res.Fatigue > 0 {
			return nil, false
		}
		res.Reshuffled = len(p.Discard)
		res.Fatigue = ds.Reshuffle(p)
		if len(p.Deck) == 0 {
			return nil, false
		}
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	return card, true
}
