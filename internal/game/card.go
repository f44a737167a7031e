package game

import (
	"fmt"
	"math/rand"
)

// Suit of a playing card.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Ranks run 6..14 with J=11, Q=12, K=13 and A=14.
const (
	MinRank = 6
	MaxRank = 14
)

// DeckSize is the number of cards in a fresh deck: 4 suits x 9 ranks.
const DeckSize = 36

// Card is an immutable (suit, rank) value. Cards move freely between
// deck, hands, stacks and the battle pile; equality is by value.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

var rankNames = map[int]string{11: "J", 12: "Q", 13: "K", 14: "A"}

func (c Card) String() string {
	name, ok := rankNames[c.Rank]
	if !ok {
		name = fmt.Sprintf("%d", c.Rank)
	}
	return fmt.Sprintf("%s of %s", name, c.Suit)
}

// NewDeck returns the full 36-card deck in suit/rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range suits {
		for r := MinRank; r <= MaxRank; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Draw removes and returns the top (last) card of the deck.
func Draw(deck []Card) ([]Card, Card, error) {
	if len(deck) == 0 {
		return deck, Card{}, ErrDeckEmpty
	}
	c := deck[len(deck)-1]
	return deck[:len(deck)-1], c, nil
}

// IsSenior reports whether candidate may be stacked on top: exactly one
// rank higher, or a 6 on an Ace.
func IsSenior(candidate, top Card) bool {
	if candidate.Rank == top.Rank+1 {
		return true
	}
	return candidate.Rank == MinRank && top.Rank == MaxRank
}

// CanStack reports whether card may be placed on the given stack. An
// empty stack accepts any card.
func CanStack(card Card, stack []Card) bool {
	if len(stack) == 0 {
		return true
	}
	return IsSenior(card, stack[len(stack)-1])
}
