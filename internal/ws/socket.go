package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/pkarpov/navalka/internal/config"
	"github.com/pkarpov/navalka/internal/game"
	"github.com/rs/zerolog/log"
)

// ConnCtx identifies a connection once it has joined a room.
type ConnCtx struct {
	RoomID   string
	PlayerID string
}

// Server is the socket.io transport adapter. It resolves connections to
// rooms and players, forwards actions into the engine, and broadcasts
// the personalized state projection after every action. The engine owns
// all rules; nothing here mutates game state directly.
type Server struct {
	Registry *game.Registry
	members  map[string]map[string]socketio.Conn // roomID -> socketID -> Conn
	config   *config.Config
}

func New(reg *game.Registry, cfg *config.Config) *Server {
	return &Server{Registry: reg, members: make(map[string]map[string]socketio.Conn), config: cfg}
}

// Mount attaches the socket.io server with all game event handlers to
// the given gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// room:create
	io.OnEvent("/", "room:create", func(s socketio.Conn, payload struct {
		Name string `json:"name"`
	}) map[string]any {
		room := srv.Registry.CreateRoom()
		player, err := room.Join(payload.Name)
		if err != nil {
			return srv.err(s, err)
		}
		s.SetContext(&ConnCtx{RoomID: room.ID, PlayerID: player.ID})
		s.Join(room.ID)
		srv.addMember(room.ID, s)
		log.Info().Str("sid", s.ID()).Str("room", room.ID).Str("player", player.ID).Msg("room:create")
		srv.emitStateTo(room)
		return map[string]any{"roomId": room.ID, "playerId": player.ID}
	})

	// room:join
	io.OnEvent("/", "room:join", func(s socketio.Conn, payload struct {
		RoomID string `json:"roomId"`
		Name   string `json:"name"`
	}) map[string]any {
		room, player, err := srv.Registry.Join(payload.RoomID, payload.Name)
		if err != nil {
			return srv.err(s, err)
		}
		s.SetContext(&ConnCtx{RoomID: room.ID, PlayerID: player.ID})
		s.Join(room.ID)
		srv.addMember(room.ID, s)
		log.Info().Str("sid", s.ID()).Str("room", room.ID).Str("player", player.ID).Msg("room:join")
		srv.emitStateTo(room)
		return map[string]any{"roomId": room.ID, "playerId": player.ID}
	})

	// game:ready
	io.OnEvent("/", "game:ready", func(s socketio.Conn) map[string]any {
		return srv.act(s, "ready", func(room *game.Room, playerID string) error {
			return room.Ready(playerID)
		})
	})

	// game:draw
	io.OnEvent("/", "game:draw", func(s socketio.Conn) map[string]any {
		return srv.act(s, "draw_card", func(room *game.Room, playerID string) error {
			return room.DrawCard(playerID)
		})
	})

	// game:place
	io.OnEvent("/", "game:place", func(s socketio.Conn, payload struct {
		Card           game.Card `json:"card"`
		TargetPlayerID string    `json:"targetPlayerId"`
	}) map[string]any {
		return srv.act(s, "place_card", func(room *game.Room, playerID string) error {
			return room.PlaceCard(playerID, payload.Card, payload.TargetPlayerID)
		})
	})

	// game:give
	io.OnEvent("/", "game:give", func(s socketio.Conn, payload struct {
		TargetPlayerID string `json:"targetPlayerId"`
	}) map[string]any {
		return srv.act(s, "give_from_stack", func(room *game.Room, playerID string) error {
			return room.GiveFromStack(playerID, payload.TargetPlayerID)
		})
	})

	// game:endTurn
	io.OnEvent("/", "game:endTurn", func(s socketio.Conn) map[string]any {
		return srv.act(s, "end_turn", func(room *game.Room, playerID string) error {
			return room.EndTurn(playerID)
		})
	})

	// game:donate
	io.OnEvent("/", "game:donate", func(s socketio.Conn, payload struct {
		Donations map[string][]int `json:"donations"`
	}) map[string]any {
		return srv.act(s, "donate_cards", func(room *game.Room, playerID string) error {
			return room.DonateCards(playerID, payload.Donations)
		})
	})

	// game:play
	io.OnEvent("/", "game:play", func(s socketio.Conn, payload struct {
		Card game.Card `json:"card"`
	}) map[string]any {
		return srv.act(s, "play_card", func(room *game.Room, playerID string) error {
			return room.PlayCard(playerID, payload.Card)
		})
	})

	// game:take
	io.OnEvent("/", "game:take", func(s socketio.Conn) map[string]any {
		return srv.act(s, "take_pile", func(room *game.Room, playerID string) error {
			return room.TakePile(playerID)
		})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.RoomID != "" {
			srv.removeMember(ctx.RoomID, s)
			srv.Registry.HandleDisconnect(ctx.RoomID, ctx.PlayerID)
			if room, err := srv.Registry.Get(ctx.RoomID); err == nil {
				srv.emitStateTo(room)
			}
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// act runs one engine action for the connection and broadcasts state
// afterwards. State is broadcast even on rejection: illegal placement
// attempts carry a penalty side effect, so viewers need the update.
func (srv *Server) act(s socketio.Conn, action string, fn func(room *game.Room, playerID string) error) map[string]any {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.RoomID == "" {
		return srv.err(s, game.ErrRoomNotFound)
	}
	room, err := srv.Registry.Get(ctx.RoomID)
	if err != nil {
		return srv.err(s, err)
	}
	prevPhase := room.GetPhase()
	actErr := fn(room, ctx.PlayerID)
	if actErr != nil {
		log.Info().Str("room", ctx.RoomID).Str("player", ctx.PlayerID).Str("action", action).Err(actErr).Msg("action rejected")
		srv.emitStateTo(room)
		return srv.err(s, actErr)
	}
	log.Info().Str("room", ctx.RoomID).Str("player", ctx.PlayerID).Str("action", action).Msg("action")
	srv.emitStateTo(room)
	srv.afterAction(room, prevPhase)
	return map[string]any{"ok": true}
}

// afterAction handles phase-boundary side effects: round-end
// notification and the optional results export.
func (srv *Server) afterAction(room *game.Room, prevPhase game.Phase) {
	curPhase := room.GetPhase()
	if curPhase == prevPhase {
		return
	}
	log.Info().Str("room", room.ID).Str("from", string(prevPhase)).Str("to", string(curPhase)).Msg("phase transition")
	if curPhase != game.PhaseFinished {
		return
	}
	summary := room.RoundSummary()
	for _, c := range srv.members[room.ID] {
		c.Emit("game:notification", map[string]any{"message": summary})
	}
	if srv.config.Export.Enabled {
		if err := room.ExportRound(srv.config.Export.File); err != nil {
			log.Error().Err(err).Str("room", room.ID).Msg("failed to export round results")
		} else {
			log.Info().Str("room", room.ID).Str("file", srv.config.Export.File).Msg("exported round results")
		}
	}
}

func (srv *Server) addMember(roomID string, c socketio.Conn) {
	if srv.members[roomID] == nil {
		srv.members[roomID] = make(map[string]socketio.Conn)
	}
	srv.members[roomID][c.ID()] = c
}

func (srv *Server) removeMember(roomID string, c socketio.Conn) {
	if m := srv.members[roomID]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, roomID)
		}
	}
}

// emitStateTo sends each connected member their own projection of the
// room. Rejections are never broadcast; this only carries state.
func (srv *Server) emitStateTo(room *game.Room) {
	for _, c := range srv.members[room.ID] {
		ctx, _ := c.Context().(*ConnCtx)
		if ctx == nil {
			continue
		}
		c.Emit("game:state", room.Snapshot(ctx.PlayerID))
	}
}

func (srv *Server) err(s socketio.Conn, err error) map[string]any {
	s.Emit("error", map[string]any{"message": err.Error()})
	return map[string]any{"error": err.Error()}
}
