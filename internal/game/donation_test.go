package game

import (
	"fmt"
	"testing"
)

// donationRoom builds a room mid donation phase with the given hands
// and bad card counters, player 0 as the pending donor.
func donationRoom(t *testing.T, hands [][]Card, counters []int) (*Room, []*Player) {
	t.Helper()
	r := NewRoom("test")
	players := make([]*Player, 0, len(hands))
	for i := range hands {
		p, err := r.Join(fmt.Sprintf("player%d", i+1))
		if err != nil {
			t.Fatalf("join failed: %v", err)
		}
		p.Hand = append([]Card{}, hands[i]...)
		p.BadCardCounter = counters[i]
		players = append(players, p)
	}
	r.Phase = PhaseDonation
	r.Locked = true
	r.CurrentPlayerIndex = 0
	r.DonationTracker = make(map[string]map[string]int)
	r.donorsPending = make(map[string]bool)
	for _, p := range players {
		r.donorsPending[p.ID] = true
	}
	return r, players
}

func TestDonateCardsMovesToRecipientStack(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{{{Hearts, 10}, {Clubs, 6}}, {{Diamonds, 9}}},
		[]int{0, 2})

	err := r.DonateCards(ps[0].ID, map[string][]int{ps[1].ID: {1}})
	if err != nil {
		t.Fatalf("donate failed: %v", err)
	}
	if len(ps[0].Hand) != 1 || ps[0].Hand[0] != (Card{Hearts, 10}) {
		t.Fatalf("donor should keep the ten of hearts, got %v", ps[0].Hand)
	}
	if len(ps[1].VisibleStack) != 1 || ps[1].VisibleStack[0] != (Card{Clubs, 6}) {
		t.Fatalf("donation should land on the recipient stack, got %v", ps[1].VisibleStack)
	}
	if r.DonationTracker[ps[1].ID][ps[0].ID] != 1 {
		t.Fatalf("tracker not updated: %v", r.DonationTracker)
	}
}

func TestDonateCompletionAdvancesToPhaseTwo(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{{{Hearts, 10}, {Clubs, 6}}, {{Diamonds, 9}}},
		[]int{0, 1})

	if err := r.DonateCards(ps[0].ID, map[string][]int{ps[1].ID: {1}}); err != nil {
		t.Fatalf("donate failed: %v", err)
	}
	// player 1 owes nobody, so the rotation drains and battle begins
	if r.Phase != PhaseTwo {
		t.Fatalf("expected phase two, got %s", r.Phase)
	}
	// the donated stack card joined the recipient's battle hand
	if len(ps[1].VisibleStack) != 0 {
		t.Fatalf("stacks must be empty in phase two, got %v", ps[1].VisibleStack)
	}
	if len(ps[1].Hand) != 2 {
		t.Fatalf("recipient battle hand should hold 2 cards, got %v", ps[1].Hand)
	}
}

func TestDonateEmptyMapIsNoOp(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{{{Hearts, 10}}, {{Diamonds, 9}}},
		[]int{0, 1})

	if err := r.DonateCards(ps[0].ID, map[string][]int{}); err != nil {
		t.Fatalf("empty donation must be accepted, got %v", err)
	}
	if len(ps[0].Hand) != 1 || len(ps[1].VisibleStack) != 0 {
		t.Fatal("empty donation must not move cards")
	}
	if r.Phase != PhaseDonation {
		t.Fatalf("donor still owes a card, phase must stay donation, got %s", r.Phase)
	}
	if r.CurrentPlayerIndex != 0 {
		t.Fatalf("donor keeps the turn after a no-op, got index %d", r.CurrentPlayerIndex)
	}
}

func TestDonateSplitAcrossActions(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{{{Hearts, 10}, {Clubs, 6}, {Spades, 8}}, {{Diamonds, 9}}},
		[]int{0, 2})

	if err := r.DonateCards(ps[0].ID, map[string][]int{ps[1].ID: {1}}); err != nil {
		t.Fatalf("first donation failed: %v", err)
	}
	if r.Phase != PhaseDonation {
		t.Fatalf("one card still owed, got phase %s", r.Phase)
	}
	if err := r.DonateCards(ps[0].ID, map[string][]int{ps[1].ID: {0}}); err != nil {
		t.Fatalf("second donation failed: %v", err)
	}
	if r.DonationTracker[ps[1].ID][ps[0].ID] != 2 {
		t.Fatalf("tracker should show 2 donated, got %v", r.DonationTracker)
	}
	if r.Phase != PhaseTwo {
		t.Fatalf("debt settled, expected phase two, got %s", r.Phase)
	}
}

func TestDonateRejections(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{{{Hearts, 10}, {Clubs, 6}}, {{Diamonds, 9}}},
		[]int{1, 1})

	// over-donation: recipient is only owed one card
	err := r.DonateCards(ps[0].ID, map[string][]int{ps[1].ID: {0, 1}})
	if err != ErrIllegalPlacement {
		t.Fatalf("expected ErrIllegalPlacement for over-donation, got %v", err)
	}
	if len(ps[0].Hand) != 2 || len(ps[1].VisibleStack) != 0 {
		t.Fatal("rejected donation must not move cards")
	}

	// donating to yourself
	err = r.DonateCards(ps[0].ID, map[string][]int{ps[0].ID: {0}})
	if err != ErrIllegalPlacement {
		t.Fatalf("expected ErrIllegalPlacement for self-donation, got %v", err)
	}

	// out-of-range hand index
	err = r.DonateCards(ps[0].ID, map[string][]int{ps[1].ID: {5}})
	if err != ErrCardNotInHand {
		t.Fatalf("expected ErrCardNotInHand, got %v", err)
	}

	// not the donor's turn
	err = r.DonateCards(ps[1].ID, map[string][]int{ps[0].ID: {0}})
	if err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
}

func TestDonationSkipsDonorsWithNothingToGive(t *testing.T) {
	// nobody has a bad card counter, so the whole phase resolves itself
	r, ps := donationRoom(t,
		[][]Card{{{Hearts, 10}}, {{Diamonds, 9}}},
		[]int{0, 0})
	r.advanceDonor()

	if r.Phase != PhaseTwo {
		t.Fatalf("no debts means straight to phase two, got %s", r.Phase)
	}
	if len(ps[0].Hand) != 1 || len(ps[1].Hand) != 1 {
		t.Fatal("battle hands should be untouched when nothing is owed")
	}
}

func TestHiddenDealTakesWorstCards(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{
			{{Hearts, 14}, {Clubs, 6}},  // worst: six of clubs
			{{Spades, 7}, {Diamonds, 8}}, // worst: seven of spades
			{{Diamonds, 12}},
		},
		[]int{0, 0, 2})
	r.TrumpSuit = Hearts
	r.startPhaseTwo()

	if len(ps[2].HiddenCards) != 2 {
		t.Fatalf("expected 2 hidden cards, got %v", ps[2].HiddenCards)
	}
	got := map[Card]bool{}
	for _, c := range ps[2].HiddenCards {
		got[c] = true
	}
	if !got[Card{Clubs, 6}] || !got[Card{Spades, 7}] {
		t.Fatalf("hidden deal should take each donor's worst card, got %v", ps[2].HiddenCards)
	}
	if len(ps[0].Hand) != 1 || ps[0].Hand[0] != (Card{Hearts, 14}) {
		t.Fatalf("donor 1 should keep the trump ace, got %v", ps[0].Hand)
	}
	if len(ps[1].Hand) != 1 || ps[1].Hand[0] != (Card{Diamonds, 8}) {
		t.Fatalf("donor 2 should keep the eight of diamonds, got %v", ps[1].Hand)
	}
}

func TestHiddenDealPrefersNonTrump(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{
			{{Hearts, 6}, {Clubs, 12}}, // the six is trump, the queen is not
			{{Diamonds, 12}},
		},
		[]int{0, 1})
	r.TrumpSuit = Hearts
	r.startPhaseTwo()

	if len(ps[1].HiddenCards) != 1 || ps[1].HiddenCards[0] != (Card{Clubs, 12}) {
		t.Fatalf("non-trump must go before trump, got %v", ps[1].HiddenCards)
	}
}

func TestLoserPenaltyAddsHiddenCards(t *testing.T) {
	r, ps := donationRoom(t,
		[][]Card{
			{{Hearts, 14}, {Clubs, 6}, {Clubs, 7}},
			{{Diamonds, 12}},
		},
		[]int{0, 0})
	ps[1].LoserPenalty = 1
	r.startPhaseTwo()

	if len(ps[1].HiddenCards) != 1 {
		t.Fatalf("the carryover alone should deal one hidden card, got %v", ps[1].HiddenCards)
	}
}
