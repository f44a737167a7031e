package game

// startDonation moves the room into the donation phase. Visible stacks
// become donation hands, and the donor rotation starts from whoever
// ended phase one. Donors with nothing to give are skipped immediately,
// so the phase can complete without a single action.
func (r *Room) startDonation() {
	r.Phase = PhaseDonation
	r.DonationTracker = make(map[string]map[string]int)
	for _, p := range r.Players {
		p.Hand = append(p.Hand, p.VisibleStack...)
		p.VisibleStack = nil
		p.LockedStack = make(map[Card]bool)
	}
	r.donorsPending = make(map[string]bool)
	for _, p := range r.Players {
		if !p.Disconnected {
			r.donorsPending[p.ID] = true
		}
	}
	r.advanceDonor()
}

// stillNeeded is how many more cards the donor owes the recipient this
// round. The tracker, not hand sizes, is authoritative.
func (r *Room) stillNeeded(recipient, donor *Player) int {
	return recipient.BadCardCounter - r.DonationTracker[recipient.ID][donor.ID]
}

func (r *Room) canDonate(donor *Player) bool {
	if len(donor.Hand) == 0 {
		return false
	}
	for _, rec := range r.Players {
		if rec.ID == donor.ID || rec.Disconnected {
			continue
		}
		if r.stillNeeded(rec, donor) > 0 {
			return true
		}
	}
	return false
}

// advanceDonor walks the rotation until it finds a pending donor who
// actually has something to give; everyone else is skipped. When no
// pending donors remain, phase two begins.
func (r *Room) advanceDonor() {
	for len(r.donorsPending) > 0 {
		p := r.currentPlayer()
		if r.donorsPending[p.ID] && r.canDonate(p) {
			return
		}
		delete(r.donorsPending, p.ID)
		r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % len(r.Players)
	}
	r.startPhaseTwo()
}

// DonateCards lets the current donor give hand cards to penalized
// recipients, keyed recipient id -> hand indices. Donations may be
// split across several actions; the tracker makes that safe. An empty
// donation map is a valid no-op. The action is validated fully before
// any card moves.
func (r *Room) DonateCards(playerID string, donations map[string][]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase != PhaseDonation {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	if err := r.requireTurn(p); err != nil {
		return err
	}

	type grant struct {
		rec   *Player
		cards []Card
	}
	var grants []grant
	used := make(map[int]bool)
	for recID, idxs := range donations {
		if len(idxs) == 0 {
			continue
		}
		rec, err := r.playerByID(recID)
		if err != nil {
			return err
		}
		if rec.ID == p.ID {
			return ErrIllegalPlacement
		}
		if len(idxs) > r.stillNeeded(rec, p) {
			return ErrIllegalPlacement
		}
		cards := make([]Card, 0, len(idxs))
		for _, ix := range idxs {
			if ix < 0 || ix >= len(p.Hand) || used[ix] {
				return ErrCardNotInHand
			}
			used[ix] = true
			cards = append(cards, p.Hand[ix])
		}
		grants = append(grants, grant{rec: rec, cards: cards})
	}

	for _, g := range grants {
		for _, c := range g.cards {
			p.removeFromHand(c)
			// donations arrive face-up on the recipient's stack
			g.rec.VisibleStack = append(g.rec.VisibleStack, c)
		}
		if r.DonationTracker[g.rec.ID] == nil {
			r.DonationTracker[g.rec.ID] = make(map[string]int)
		}
		r.DonationTracker[g.rec.ID][p.ID] += len(g.cards)
	}

	if !r.canDonate(p) {
		delete(r.donorsPending, p.ID)
		r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % len(r.Players)
		r.advanceDonor()
	}
	return nil
}

// startPhaseTwo performs the battle setup: donated stack cards join the
// battle hands, penalized players are dealt their hidden cards worst
// card first, and the pile state is reset.
func (r *Room) startPhaseTwo() {
	r.Phase = PhaseTwo
	for _, p := range r.Players {
		p.Hand = append(p.Hand, p.VisibleStack...)
		p.VisibleStack = nil
	}
	for _, rec := range r.Players {
		r.dealHiddenCards(rec, rec.BadCardCounter+rec.LoserPenalty)
	}
	for _, p := range r.Players {
		p.HasPickedHiddenCards = false
	}
	r.BattlePile = nil
	r.DiscardedCount = 0

	cur := r.currentPlayer()
	if cur.IsOut || cur.Disconnected || len(cur.Hand) == 0 {
		r.advanceTurn()
	}
}

// dealHiddenCards takes n cards for the recipient from the other
// players' hands, round-robin, always picking the donor's worst card:
// lowest rank, preferring non-trump.
func (r *Room) dealHiddenCards(rec *Player, n int) {
	if n <= 0 {
		return
	}
	var donors []*Player
	for _, p := range r.Players {
		if p.ID != rec.ID {
			donors = append(donors, p)
		}
	}
	if len(donors) == 0 {
		return
	}
	i := 0
	for dealt := 0; dealt < n; {
		found := false
		for j := 0; j < len(donors); j++ {
			d := donors[(i+j)%len(donors)]
			if len(d.Hand) == 0 {
				continue
			}
			ix := worstCardIndex(d.Hand, r.TrumpSuit)
			c := d.Hand[ix]
			d.Hand = append(d.Hand[:ix], d.Hand[ix+1:]...)
			rec.HiddenCards = append(rec.HiddenCards, c)
			i = (i+j)%len(donors) + 1
			dealt++
			found = true
			break
		}
		if !found {
			return
		}
	}
}
