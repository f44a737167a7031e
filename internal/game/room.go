package game

import (
	"math/rand"
	"sync"
)

// Phase is the lifecycle stage of a room. Transitions are
// one-directional: waiting -> phase_one -> donation -> phase_two ->
// finished, and finished loops back to waiting for the next round.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseOne      Phase = "phase_one"
	PhaseDonation Phase = "donation"
	PhaseTwo      Phase = "phase_two"
	PhaseFinished Phase = "finished"
)

const (
	MinPlayers = 2
	MaxPlayers = 6
)

// Room holds the authoritative state for one table. Every exported
// method takes the room lock, so actions within a room are serialized;
// independent rooms run fully in parallel.
type Room struct {
	ID string

	mu sync.Mutex

	// Players in join order; join order is turn order.
	Players []*Player
	Phase   Phase
	// Locked is set once the phase leaves waiting and blocks joins
	// mid-round.
	Locked bool

	Deck               []Card
	TrumpSuit          Suit
	CurrentPlayerIndex int
	LastDrawnCard      *Card

	BattlePile     []Card
	DiscardedCount int

	// DonationTracker is the authoritative count of cards already given,
	// keyed recipient id -> donor id. It is never inferred from hand
	// sizes, since hands shrink for other reasons too.
	DonationTracker map[string]map[string]int
	donorsPending   map[string]bool

	PreviousLoserID string
	RoundsPlayed    int
}

// NewRoom returns an empty room in the waiting phase.
func NewRoom(id string) *Room {
	return &Room{
		ID:              id,
		Phase:           PhaseWaiting,
		DonationTracker: make(map[string]map[string]int),
	}
}

// Join adds a player to the room. Joins are refused once a round is in
// progress or the table is full.
func (r *Room) Join(username string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Locked {
		return nil, ErrRoomLocked
	}
	if len(r.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	p := newPlayer(username)
	r.Players = append(r.Players, p)
	return p, nil
}

// Ready marks a player ready. In the finished phase the first ready
// acknowledges the round result and resets the table to waiting; once
// at least MinPlayers are all ready, the next round starts.
func (r *Room) Ready(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Phase == PhaseFinished {
		r.resetRound()
	}
	if r.Phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	p, err := r.playerByID(playerID)
	if err != nil {
		return err
	}
	p.Ready = true
	if r.allReady() {
		r.startRound()
	}
	return nil
}

// GetPhase returns the current phase.
func (r *Room) GetPhase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Phase
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Players)
}

// HandleDisconnect is the transport's disconnect hook. A player leaving
// a waiting or finished room is removed outright; mid-round their state
// must survive so turn rotation and donation bookkeeping stay coherent,
// and they are merely skipped by turn advancement. The return value
// tells the registry whether the room is dead and may be torn down.
func (r *Room) HandleDisconnect(playerID string) (dead bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return len(r.Players) == 0
	}

	if r.Phase == PhaseWaiting || r.Phase == PhaseFinished {
		r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
		if r.CurrentPlayerIndex >= len(r.Players) {
			r.CurrentPlayerIndex = 0
		} else if idx < r.CurrentPlayerIndex {
			r.CurrentPlayerIndex--
		}
		if r.Phase == PhaseWaiting && r.allReady() {
			r.startRound()
		}
		return len(r.Players) == 0
	}

	p := r.Players[idx]
	p.Disconnected = true
	delete(r.donorsPending, p.ID)

	if r.connectedCount() <= 1 {
		// round abandoned, no loser
		r.resetRound()
		return r.connectedCount() == 0
	}

	wasCurrent := r.CurrentPlayerIndex == idx
	switch r.Phase {
	case PhaseOne:
		if wasCurrent {
			r.endPlayerTurn(p)
		}
	case PhaseDonation:
		if wasCurrent {
			r.advanceDonor()
		}
	case PhaseTwo:
		if r.checkRoundEnd() {
			break
		}
		if wasCurrent {
			r.advanceTurn()
		}
	}
	return false
}

func (r *Room) playerByID(id string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrUnknownPlayer
}

func (r *Room) currentPlayer() *Player {
	return r.Players[r.CurrentPlayerIndex]
}

func (r *Room) requireTurn(p *Player) error {
	if len(r.Players) == 0 || r.currentPlayer().ID != p.ID {
		return ErrNotYourTurn
	}
	return nil
}

func (r *Room) allReady() bool {
	if len(r.Players) < MinPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.Disconnected {
			n++
		}
	}
	return n
}

// activeCount is the number of players still contesting the round.
func (r *Room) activeCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsOut && !p.Disconnected {
			n++
		}
	}
	return n
}

// advanceTurn moves to the next player who can act, skipping players
// who are out or disconnected. During phase two a player with an empty
// hand facing an empty pile can neither play nor take, so they are
// skipped as well; their hidden pickup waits for the next pile clear
// that discards cards.
func (r *Room) advanceTurn() {
	n := len(r.Players)
	for i := 0; i < n; i++ {
		r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % n
		p := r.currentPlayer()
		if p.IsOut || p.Disconnected {
			continue
		}
		if r.Phase == PhaseTwo && len(p.Hand) == 0 && len(r.BattlePile) == 0 {
			continue
		}
		return
	}
}

// resetRound returns the table to waiting. Round-scoped state is
// cleared; identity, username and the loser carryover survive. Players
// who dropped mid-round are swept out here.
func (r *Room) resetRound() {
	kept := r.Players[:0]
	for _, p := range r.Players {
		if !p.Disconnected {
			kept = append(kept, p)
		}
	}
	r.Players = kept
	r.CurrentPlayerIndex = 0
	r.Phase = PhaseWaiting
	r.Locked = false
	r.Deck = nil
	r.TrumpSuit = ""
	r.LastDrawnCard = nil
	r.BattlePile = nil
	r.DiscardedCount = 0
	r.DonationTracker = make(map[string]map[string]int)
	r.donorsPending = nil
	for _, p := range r.Players {
		p.resetForRound()
	}
}

// startRound deals a fresh round: shuffled 36-card deck, two hidden
// cards and one visible stack card per player. The previous round's
// loser goes first when still seated, otherwise the first player is
// random.
func (r *Room) startRound() {
	r.Phase = PhaseOne
	r.Locked = true
	r.Deck = ShuffleDeck(NewDeck())
	r.TrumpSuit = ""
	r.LastDrawnCard = nil
	r.BattlePile = nil
	r.DiscardedCount = 0
	r.DonationTracker = make(map[string]map[string]int)
	r.donorsPending = nil

	for _, p := range r.Players {
		p.IsOut = false
		p.IsLoser = false
		p.BadCardCounter = 0
		p.HasPickedHiddenCards = false
		p.LockedStack = make(map[Card]bool)
		p.Hand = nil

		var c Card
		r.Deck, c, _ = Draw(r.Deck)
		first := c
		r.Deck, c, _ = Draw(r.Deck)
		p.HiddenCards = []Card{first, c}
		r.Deck, c, _ = Draw(r.Deck)
		p.VisibleStack = []Card{c}
	}

	r.CurrentPlayerIndex = r.firstPlayerIndex()
}

func (r *Room) firstPlayerIndex() int {
	if r.PreviousLoserID != "" {
		for i, p := range r.Players {
			if p.ID == r.PreviousLoserID && !p.Disconnected {
				return i
			}
		}
	}
	return rand.Intn(len(r.Players))
}
