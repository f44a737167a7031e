package game

// hasSeniorTargetOther reports whether the card fits on any other
// seated player's stack.
func (r *Room) hasSeniorTargetOther(card Card, actor *Player) bool {
	for _, p := range r.Players {
		if p.ID == actor.ID || p.Disconnected {
			continue
		}
		if CanStack(card, p.VisibleStack) {
			return true
		}
	}
	return false
}

// hasGiveableStackCard reports whether the player's top stack card
// could be given to another player right now. The seeded base card is
// never giveable, nor is a locked card.
func (r *Room) hasGiveableStackCard(p *Player) bool {
	if len(p.VisibleStack) <= 1 {
		return false
	}
	top := p.VisibleStack[len(p.VisibleStack)-1]
	if p.LockedStack[top] {
		return false
	}
	return r.hasSeniorTargetOther(top, p)
}

// DrawCard moves one card from the deck into the acting player's hand.
// Drawing while the player's own stack top could have been given away
// costs one bad-card point and locks that card for the rest of the
// turn, forcing eventual self-placement.
func (r *Room) DrawCard(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseOne {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}
	if len(p.Hand) > 0 {
		return ErrHandNotEmpty
	}
	if len(r.Deck) == 0 {
		return ErrDeckEmpty
	}

	if r.hasGiveableStackCard(p) {
		top, _ := p.topOfStack()
		p.BadCardCounter++
		p.LockedStack[top] = true
	}

	var card Card
	r.Deck, card, _ = Draw(r.Deck)
	p.Hand = append(p.Hand, card)
	drawn := card
	r.LastDrawnCard = &drawn

	if len(r.Deck) == 0 {
		// the last card fixes the trump; a spade on the bottom means
		// no trump at all
		if card.Suit == Spades {
			r.TrumpSuit = ""
		} else {
			r.TrumpSuit = card.Suit
		}
	}
	return nil
}

// PlaceCard places the sole hand card onto a stack. Placing on the own
// stack always succeeds and ends the turn, but hoarding a card another
// player's stack would have accepted costs a bad-card point. Placing on
// another player's stack is gated by seniority and keeps the turn; an
// illegal attempt is refused yet still penalized.
func (r *Room) PlaceCard(playerID string, card Card, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseOne {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}
	if len(p.Hand) == 0 {
		return ErrHandEmpty
	}
	if p.Hand[0] != card {
		return ErrCardNotInHand
	}

	if targetID == p.ID {
		if r.hasSeniorTargetOther(card, p) {
			p.BadCardCounter++
		}
		p.Hand = nil
		p.VisibleStack = append(p.VisibleStack, card)
		r.endPlayerTurn(p)
		return nil
	}

	target, err := r.playerByID(targetID)
	if err != nil {
		return err
	}
	if target.Disconnected {
		return ErrIllegalPlacement
	}
	if !CanStack(card, target.VisibleStack) {
		// the attempt itself is the infraction; the card stays in hand
		p.BadCardCounter++
		return ErrIllegalPlacement
	}
	if isSixOnAce(card, target.VisibleStack) {
		// legal, but both sides pay for it
		p.BadCardCounter++
		target.BadCardCounter++
	}
	p.Hand = nil
	target.VisibleStack = append(target.VisibleStack, card)
	return nil
}

// GiveFromStack moves the acting player's own top stack card onto
// another player's stack under the same seniority and penalty rules as
// PlaceCard. Locked cards cannot be given, and the seeded base card
// always stays.
func (r *Room) GiveFromStack(playerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseOne {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}
	if len(p.VisibleStack) <= 1 || targetID == p.ID {
		return ErrIllegalPlacement
	}
	top, _ := p.topOfStack()
	if p.LockedStack[top] {
		return ErrCardLocked
	}
	target, err := r.playerByID(targetID)
	if err != nil {
		return err
	}
	if target.Disconnected {
		return ErrIllegalPlacement
	}
	if !CanStack(top, target.VisibleStack) {
		p.BadCardCounter++
		return ErrIllegalPlacement
	}
	if isSixOnAce(top, target.VisibleStack) {
		p.BadCardCounter++
		target.BadCardCounter++
	}
	p.VisibleStack = p.VisibleStack[:len(p.VisibleStack)-1]
	target.VisibleStack = append(target.VisibleStack, top)
	return nil
}

// EndTurn passes the turn. It is only legal once drawing is impossible:
// the hand has been resolved and the deck is empty.
func (r *Room) EndTurn(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseOne {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}
	if len(p.Hand) > 0 {
		return ErrHandNotEmpty
	}
	if len(r.Deck) > 0 {
		return ErrMustDraw
	}
	r.endPlayerTurn(p)
	return nil
}

// endPlayerTurn finishes the acting player's turn: any leftover hand
// card lands on their own stack, turn locks expire, and the turn moves
// on. Once the deck is exhausted and the hand resolved, phase one is
// over and the donation phase begins.
func (r *Room) endPlayerTurn(p *Player) {
	for len(p.Hand) > 0 {
		card := p.Hand[len(p.Hand)-1]
		p.Hand = p.Hand[:len(p.Hand)-1]
		p.VisibleStack = append(p.VisibleStack, card)
	}
	p.LockedStack = make(map[Card]bool)

	if len(r.Deck) == 0 {
		r.startDonation()
		return
	}
	r.advanceTurn()
}
