package game

import "github.com/google/uuid"

// Player is the per-participant state inside a room. Identity, username
// and the cumulative loser penalty survive round resets; everything
// else is round-scoped.
type Player struct {
	ID       string
	Username string
	Ready    bool

	// Hand holds at most one card during phase one and becomes the
	// battle hand in phase two.
	Hand []Card
	// VisibleStack is ordered bottom..top.
	VisibleStack []Card
	// LockedStack marks top-of-stack cards the player forfeited the
	// right to give away this turn.
	LockedStack map[Card]bool
	// HiddenCards are face-down penalty cards. Their count is public,
	// their content never is.
	HiddenCards []Card

	BadCardCounter       int
	IsOut                bool
	IsLoser              bool
	HasPickedHiddenCards bool
	Disconnected         bool

	// LoserPenalty accumulates one extra hidden card per lost round and
	// carries over between rounds.
	LoserPenalty int
}

func newPlayer(username string) *Player {
	return &Player{
		ID:          uuid.NewString(),
		Username:    username,
		LockedStack: make(map[Card]bool),
	}
}

func (p *Player) resetForRound() {
	p.Ready = false
	p.Hand = nil
	p.VisibleStack = nil
	p.LockedStack = make(map[Card]bool)
	p.HiddenCards = nil
	p.BadCardCounter = 0
	p.IsOut = false
	p.IsLoser = false
	p.HasPickedHiddenCards = false
}

func (p *Player) topOfStack() (Card, bool) {
	if len(p.VisibleStack) == 0 {
		return Card{}, false
	}
	return p.VisibleStack[len(p.VisibleStack)-1], true
}

func (p *Player) hasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

func (p *Player) removeFromHand(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}
