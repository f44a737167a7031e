package game

import "testing"

func TestSnapshotHidesOtherBattleHands(t *testing.T) {
	r, ps := phase2Room(t, [][]Card{
		{{Diamonds, 6}, {Clubs, 10}},
		{{Diamonds, 8}},
	})
	ps[1].HiddenCards = []Card{{Spades, 6}}

	gs := r.Snapshot(ps[0].ID)
	if gs.Phase != PhaseTwo || gs.PlayerID != ps[0].ID {
		t.Fatalf("unexpected header %+v", gs)
	}

	self, other := gs.Players[0], gs.Players[1]
	if len(self.Hand) != 2 {
		t.Fatalf("own hand must be visible, got %v", self.Hand)
	}
	if other.Hand != nil {
		t.Fatalf("the opponent's battle hand leaked: %v", other.Hand)
	}
	if other.HandSize != 1 {
		t.Fatalf("hand size stays public, got %d", other.HandSize)
	}
	if other.HiddenCardsCount != 1 {
		t.Fatalf("hidden card count stays public, got %d", other.HiddenCardsCount)
	}
}

func TestSnapshotShowsHandsOutsideBattle(t *testing.T) {
	r, ps := phase1Room(t,
		[]Card{{Clubs, 10}, {Diamonds, 13}},
		[]Card{{Hearts, 8}})
	ps[0].Hand = []Card{{Hearts, 9}}

	gs := r.Snapshot(ps[1].ID)
	if len(gs.Players[0].Hand) != 1 {
		t.Fatal("phase one hands are public, the drawn card is announced")
	}
}

func TestSnapshotLockedCardsOwnerOnly(t *testing.T) {
	r, ps := phase1Room(t,
		[]Card{{Clubs, 10}, {Diamonds, 13}},
		[]Card{{Hearts, 8}})
	ps[0].LockedStack[Card{Clubs, 10}] = true

	own := r.Snapshot(ps[0].ID)
	if len(own.Players[0].LockedStackCards) != 1 {
		t.Fatal("the owner should see their locked cards")
	}
	other := r.Snapshot(ps[1].ID)
	if other.Players[0].LockedStackCards != nil {
		t.Fatal("lock markers must not leak to other players")
	}
}

func TestSnapshotNeverExposesHiddenCards(t *testing.T) {
	r, ps := phase2Room(t, [][]Card{
		{{Diamonds, 6}},
		{{Diamonds, 8}},
	})
	ps[0].HiddenCards = []Card{{Spades, 6}, {Clubs, 13}}

	// not even the owner sees them, face-down cards are played blind
	gs := r.Snapshot(ps[0].ID)
	if gs.Players[0].HiddenCardsCount != 2 {
		t.Fatalf("expected count 2, got %d", gs.Players[0].HiddenCardsCount)
	}
}

func TestSnapshotValidMovesCurrentViewerOnly(t *testing.T) {
	r, ps := phase2Room(t, [][]Card{
		{{Diamonds, 6}, {Clubs, 10}},
		{{Diamonds, 8}},
	})

	cur := r.Snapshot(ps[0].ID)
	if len(cur.ValidMoves) == 0 {
		t.Fatal("the current player should get move hints")
	}
	idle := r.Snapshot(ps[1].ID)
	if idle.ValidMoves != nil {
		t.Fatalf("a waiting player gets no hints, got %v", idle.ValidMoves)
	}
}

func TestValidMovesPhaseOne(t *testing.T) {
	r, ps := phase1Room(t,
		[]Card{{Clubs, 10}, {Diamonds, 7}},
		[]Card{{Hearts, 8}})

	gs := r.Snapshot(ps[0].ID)
	if len(gs.ValidMoves) != 1 || gs.ValidMoves[0].Action != "draw_card" {
		t.Fatalf("empty hand with a live deck means draw only, got %v", gs.ValidMoves)
	}

	ps[0].Hand = []Card{{Diamonds, 8}}
	gs = r.Snapshot(ps[0].ID)
	var actions []string
	var targets []string
	for _, m := range gs.ValidMoves {
		actions = append(actions, m.Action)
		targets = append(targets, m.TargetPlayerID)
	}
	// own stack always, plus player 1's seven of diamonds
	if len(gs.ValidMoves) != 2 {
		t.Fatalf("expected self and one legal target, got %v %v", actions, targets)
	}
	for _, m := range gs.ValidMoves {
		if m.Action != "place_card" {
			t.Fatalf("expected place_card hints, got %v", actions)
		}
	}
}

func TestValidMovesPhaseTwoTake(t *testing.T) {
	r, ps := phase2Room(t, [][]Card{
		{{Diamonds, 6}},
		{{Diamonds, 8}},
	})
	r.BattlePile = []Card{{Clubs, 13}}

	gs := r.Snapshot(ps[0].ID)
	// the six cannot beat the king, taking is the only way out
	if len(gs.ValidMoves) != 1 || gs.ValidMoves[0].Action != "take_pile" {
		t.Fatalf("expected take_pile only, got %v", gs.ValidMoves)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r, ps := phase2Room(t, [][]Card{
		{{Diamonds, 6}},
		{{Diamonds, 8}},
	})
	r.BattlePile = []Card{{Clubs, 13}}
	r.DonationTracker = map[string]map[string]int{ps[0].ID: {ps[1].ID: 1}}

	gs := r.Snapshot(ps[0].ID)
	gs.BattlePile[0] = Card{Hearts, 6}
	gs.Players[0].Hand[0] = Card{Hearts, 6}
	gs.DonationTracker[ps[0].ID][ps[1].ID] = 99

	if r.BattlePile[0] != (Card{Clubs, 13}) {
		t.Fatal("mutating a snapshot must not touch the pile")
	}
	if ps[0].Hand[0] != (Card{Diamonds, 6}) {
		t.Fatal("mutating a snapshot must not touch hands")
	}
	if r.DonationTracker[ps[0].ID][ps[1].ID] != 1 {
		t.Fatal("mutating a snapshot must not touch the tracker")
	}
}
