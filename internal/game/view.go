package game

// GameState is the per-viewer projection of a room: everything one
// client may see and nothing more. Other players' battle hands and all
// hidden cards are reduced to counts, and lock markers are only shown
// to their owner.
type GameState struct {
	Type               string                    `json:"type"`
	RoomID             string                    `json:"room_id"`
	Phase              Phase                     `json:"phase"`
	Players            []PlayerView              `json:"players"`
	CurrentPlayerIndex int                       `json:"current_player_index"`
	DeckSize           int                       `json:"deck_size"`
	TrumpSuit          Suit                      `json:"trump_suit"`
	BattlePile         []Card                    `json:"battle_pile"`
	DiscardedCount     int                       `json:"discarded_count"`
	DonationTracker    map[string]map[string]int `json:"donation_tracker"`
	LastDrawnCard      *Card                     `json:"last_drawn_card,omitempty"`
	PlayerID           string                    `json:"player_id"`
	ValidMoves         []Move                    `json:"valid_moves,omitempty"`
}

// PlayerView is the projected view of one seat.
type PlayerView struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	Ready                bool   `json:"ready"`
	Hand                 []Card `json:"hand,omitempty"`
	HandSize             int    `json:"hand_size"`
	VisibleStack         []Card `json:"visible_stack"`
	LockedStackCards     []Card `json:"locked_stack_cards,omitempty"`
	HiddenCardsCount     int    `json:"hidden_cards_count"`
	BadCardCounter       int    `json:"bad_card_counter"`
	IsOut                bool   `json:"is_out"`
	IsLoser              bool   `json:"is_loser"`
	HasPickedHiddenCards bool   `json:"has_picked_hidden_cards"`
	Disconnected         bool   `json:"disconnected"`
}

// Move is a hint for the viewing player about one currently legal
// action.
type Move struct {
	Action         string `json:"action"`
	Card           *Card  `json:"card,omitempty"`
	TargetPlayerID string `json:"target_player_id,omitempty"`
}

// Snapshot builds the state view for one viewer. It is a pure read;
// nothing in the room mutates.
func (r *Room) Snapshot(viewerID string) GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(viewerID)
}

func (r *Room) snapshotLocked(viewerID string) GameState {
	gs := GameState{
		Type:               "game_state",
		RoomID:             r.ID,
		Phase:              r.Phase,
		CurrentPlayerIndex: r.CurrentPlayerIndex,
		DeckSize:           len(r.Deck),
		TrumpSuit:          r.TrumpSuit,
		BattlePile:         append([]Card(nil), r.BattlePile...),
		DiscardedCount:     r.DiscardedCount,
		DonationTracker:    copyTracker(r.DonationTracker),
		PlayerID:           viewerID,
	}
	if r.LastDrawnCard != nil {
		c := *r.LastDrawnCard
		gs.LastDrawnCard = &c
	}
	for _, p := range r.Players {
		pv := PlayerView{
			ID:                   p.ID,
			Username:             p.Username,
			Ready:                p.Ready,
			HandSize:             len(p.Hand),
			VisibleStack:         append([]Card(nil), p.VisibleStack...),
			HiddenCardsCount:     len(p.HiddenCards),
			BadCardCounter:       p.BadCardCounter,
			IsOut:                p.IsOut,
			IsLoser:              p.IsLoser,
			HasPickedHiddenCards: p.HasPickedHiddenCards,
			Disconnected:         p.Disconnected,
		}
		// battle hands are secret; phase one and donation hands were
		// already public knowledge (the drawn card is announced, the
		// donation hand is the former stack)
		if p.ID == viewerID || r.Phase != PhaseTwo {
			pv.Hand = append([]Card(nil), p.Hand...)
		}
		if p.ID == viewerID {
			for c := range p.LockedStack {
				pv.LockedStackCards = append(pv.LockedStackCards, c)
			}
		}
		gs.Players = append(gs.Players, pv)
	}
	if len(r.Players) > 0 && r.currentPlayer().ID == viewerID {
		gs.ValidMoves = r.validMoves(r.currentPlayer())
	}
	return gs
}

func copyTracker(t map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(t))
	for rec, donors := range t {
		m := make(map[string]int, len(donors))
		for d, n := range donors {
			m[d] = n
		}
		out[rec] = m
	}
	return out
}

// validMoves enumerates the legal actions for the player whose turn it
// is. Purely advisory; the engine validates every action regardless.
func (r *Room) validMoves(p *Player) []Move {
	var moves []Move
	switch r.Phase {
	case PhaseOne:
		if len(p.Hand) == 0 && len(r.Deck) > 0 {
			moves = append(moves, Move{Action: "draw_card"})
		}
		if len(p.Hand) == 1 {
			card := p.Hand[0]
			moves = append(moves, Move{Action: "place_card", Card: &card, TargetPlayerID: p.ID})
			for _, t := range r.Players {
				if t.ID == p.ID || t.Disconnected {
					continue
				}
				if CanStack(card, t.VisibleStack) {
					c := card
					moves = append(moves, Move{Action: "place_card", Card: &c, TargetPlayerID: t.ID})
				}
			}
		}
		if r.hasGiveableStackCard(p) {
			top, _ := p.topOfStack()
			for _, t := range r.Players {
				if t.ID == p.ID || t.Disconnected {
					continue
				}
				if CanStack(top, t.VisibleStack) {
					c := top
					moves = append(moves, Move{Action: "give_from_stack", Card: &c, TargetPlayerID: t.ID})
				}
			}
		}
		if len(p.Hand) == 0 && len(r.Deck) == 0 {
			moves = append(moves, Move{Action: "end_turn"})
		}
	case PhaseTwo:
		for i, card := range p.Hand {
			if CanBeatCard(card, r.BattlePile, r.TrumpSuit) {
				c := p.Hand[i]
				moves = append(moves, Move{Action: "play_card", Card: &c})
			}
		}
		if len(r.BattlePile) > 0 {
			moves = append(moves, Move{Action: "take_pile"})
		}
	}
	return moves
}
