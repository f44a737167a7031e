package game

// CanBeatCard reports whether card beats the top of the battle pile
// under the given trump suit. An empty pile accepts any card. Trump is
// empty when the last card of the deck was a spade; spades outrank
// trump regardless.
func CanBeatCard(card Card, pile []Card, trump Suit) bool {
	if len(pile) == 0 {
		return true
	}
	top := pile[len(pile)-1]

	// The seven of spades beats everything.
	if card.Suit == Spades && card.Rank == 7 {
		return true
	}
	// A spade is only ever beaten by a higher spade.
	if top.Suit == Spades {
		return card.Suit == Spades && card.Rank > top.Rank
	}
	if card.Suit == top.Suit {
		return card.Rank > top.Rank || (card.Rank == MinRank && top.Rank == MaxRank)
	}
	return trump != "" && card.Suit == trump
}

// isSixOnAce reports whether placing card on the stack is the legal but
// doubly penalized 6-on-Ace move.
func isSixOnAce(card Card, stack []Card) bool {
	if len(stack) == 0 {
		return false
	}
	return card.Rank == MinRank && stack[len(stack)-1].Rank == MaxRank
}

// worseThan orders cards for the hidden-card deal: non-trump before
// trump, then by ascending rank.
func worseThan(a, b Card, trump Suit) bool {
	at := trump != "" && a.Suit == trump
	bt := trump != "" && b.Suit == trump
	if at != bt {
		return bt
	}
	return a.Rank < b.Rank
}

// worstCardIndex returns the index of the worst card in hand, or -1 for
// an empty hand.
func worstCardIndex(hand []Card, trump Suit) int {
	worst := -1
	for i, c := range hand {
		if worst == -1 || worseThan(c, hand[worst], trump) {
			worst = i
		}
	}
	return worst
}
