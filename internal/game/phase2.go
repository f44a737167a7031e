package game

// PlayCard plays one card from the acting player's hand onto the battle
// pile. Any card opens an empty pile; a non-empty pile must be beaten
// per CanBeatCard. When the appended pile reaches the active player
// count it is discarded whole, the triggering card included, and the
// player who cleared it leads the fresh pile.
func (r *Room) PlayCard(playerID string, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseTwo {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}
	if !p.hasCard(card) {
		return ErrCardNotInHand
	}
	if !CanBeatCard(card, r.BattlePile, r.TrumpSuit) {
		return ErrCannotBeat
	}

	p.removeFromHand(card)
	r.BattlePile = append(r.BattlePile, card)

	if len(r.BattlePile) >= r.activeCount() {
		r.DiscardedCount += len(r.BattlePile)
		r.BattlePile = nil
		r.checkHiddenPickups()
		r.checkPlayerOut(p)
		if r.checkRoundEnd() {
			return nil
		}
		if p.IsOut {
			r.advanceTurn()
		}
		// otherwise p leads the fresh pile
		return nil
	}

	r.checkPlayerOut(p)
	if r.checkRoundEnd() {
		return nil
	}
	r.advanceTurn()
	return nil
}

// TakePile gives up on beating the pile. With two active players the
// taker swallows the whole pile; with three or more only the bottom
// card transfers and the rest is discarded. The turn always passes on,
// the taker does not get to continue. A take that discards the
// remainder releases hidden pickups for the other players, same as a
// full-pile discard: the taker's fresh hand never qualifies, so the
// penalty of taking stays with the taker. Without this release the
// round can starve once fewer cards circulate than there are active
// players, all of them still sitting on face-down cards.
func (r *Room) TakePile(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseTwo {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}
	if len(r.BattlePile) == 0 {
		return ErrPileEmpty
	}

	if r.activeCount() <= 2 {
		p.Hand = append(p.Hand, r.BattlePile...)
		r.BattlePile = nil
	} else {
		p.Hand = append(p.Hand, r.BattlePile[0])
		r.DiscardedCount += len(r.BattlePile) - 1
		r.BattlePile = nil
		r.checkHiddenPickups()
	}
	r.advanceTurn()
	return nil
}

// checkHiddenPickups runs whenever cards were discarded off the pile:
// a player whose hand is empty while the pile is freshly cleared picks
// up their face-down cards. A two-player whole-pile take discards
// nothing and does not qualify.
func (r *Room) checkHiddenPickups() {
	if len(r.BattlePile) != 0 {
		return
	}
	for _, p := range r.Players {
		if p.IsOut || len(p.Hand) > 0 {
			continue
		}
		if len(p.HiddenCards) > 0 && !p.HasPickedHiddenCards {
			p.Hand = append(p.Hand, p.HiddenCards...)
			p.HiddenCards = nil
			p.HasPickedHiddenCards = true
		}
	}
}

// checkPlayerOut marks the acting player out once their own play left
// them with no hand and no hidden cards.
func (r *Room) checkPlayerOut(p *Player) {
	if !p.IsOut && len(p.Hand) == 0 && len(p.HiddenCards) == 0 {
		p.IsOut = true
	}
}

// checkRoundEnd finishes the round once at most one active player
// remains; that player is the loser and their hidden-card carryover for
// the next round grows by one.
func (r *Room) checkRoundEnd() bool {
	if r.Phase != PhaseTwo {
		return false
	}
	var last *Player
	n := 0
	for _, p := range r.Players {
		if !p.IsOut && !p.Disconnected {
			n++
			last = p
		}
	}
	if n > 1 {
		return false
	}
	r.Phase = PhaseFinished
	r.RoundsPlayed++
	if last != nil {
		last.IsLoser = true
		last.LoserPenalty++
		r.PreviousLoserID = last.ID
	}
	return true
}
