package game

import (
	"math/rand"
	"sync"
)

// RoomInfo is the directory listing entry for one room.
type RoomInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"players"`
	MaxPlayers  int    `json:"max_players"`
}

// Registry owns the room table. Its lock only guards the table itself;
// each room serializes its own actions, so rooms are processed fully in
// parallel.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// CreateRoom makes a new empty room with a fresh code.
func (g *Registry) CreateRoom() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := randomCode(8)
	for g.rooms[code] != nil {
		code = randomCode(8)
	}
	room := NewRoom(code)
	g.rooms[code] = room
	return room
}

// Get resolves a room id.
func (g *Registry) Get(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room := g.rooms[id]
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Join seats a player in the given room, creating the room when the id
// is unknown so a shared link always works.
func (g *Registry) Join(roomID, username string) (*Room, *Player, error) {
	g.mu.Lock()
	room := g.rooms[roomID]
	if room == nil {
		room = NewRoom(roomID)
		g.rooms[roomID] = room
	}
	g.mu.Unlock()

	p, err := room.Join(username)
	if err != nil {
		return nil, nil, err
	}
	return room, p, nil
}

// ListWaiting returns the joinable rooms, i.e. those still waiting for
// players.
func (g *Registry) ListWaiting() []RoomInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]RoomInfo, 0, len(g.rooms))
	for id, room := range g.rooms {
		if room.GetPhase() != PhaseWaiting {
			continue
		}
		out = append(out, RoomInfo{ID: id, PlayerCount: room.PlayerCount(), MaxPlayers: MaxPlayers})
	}
	return out
}

// HandleDisconnect forwards the transport's disconnect notification to
// the room and tears the room down once it is dead.
func (g *Registry) HandleDisconnect(roomID, playerID string) {
	room, err := g.Get(roomID)
	if err != nil {
		return
	}
	if room.HandleDisconnect(playerID) {
		g.mu.Lock()
		delete(g.rooms, roomID)
		g.mu.Unlock()
	}
}

func randomCode(n int) string {
	letters := []rune("abcdefghjkmnpqrstuvwxyz23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
