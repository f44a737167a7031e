package game

import "testing"

func TestCreateRoomAndGet(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateRoom()
	if room.ID == "" {
		t.Fatal("room code should not be empty")
	}
	got, err := reg.Get(room.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != room {
		t.Fatal("get should return the created room")
	}
}

func TestGetUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Get("nope"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestJoinCreatesUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	room, p, err := reg.Join("shared-link", "alice")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if room.ID != "shared-link" || p.Username != "alice" {
		t.Fatalf("unexpected room %q player %q", room.ID, p.Username)
	}
	if _, err := reg.Get("shared-link"); err != nil {
		t.Fatalf("the implicit room should be registered: %v", err)
	}
}

func TestListWaitingExcludesRunningRooms(t *testing.T) {
	reg := NewRegistry()
	waiting := reg.CreateRoom()
	waiting.Join("alice")
	running := reg.CreateRoom()
	running.Phase = PhaseOne

	rooms := reg.ListWaiting()
	if len(rooms) != 1 {
		t.Fatalf("expected 1 joinable room, got %d", len(rooms))
	}
	if rooms[0].ID != waiting.ID || rooms[0].PlayerCount != 1 {
		t.Fatalf("unexpected listing %+v", rooms[0])
	}
}

func TestDisconnectTearsDownEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	room, p, err := reg.Join("solo", "alice")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	reg.HandleDisconnect(room.ID, p.ID)
	if _, err := reg.Get("solo"); err != ErrRoomNotFound {
		t.Fatalf("emptied room should be torn down, got %v", err)
	}
}

func TestRoomCodes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := randomCode(8)
		if len(code) != 8 {
			t.Fatalf("expected 8-rune code, got %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Fatalf("codes should be essentially unique, got %d distinct of 50", len(seen))
	}
}
