package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkarpov/navalka/internal/config"
	"github.com/pkarpov/navalka/internal/game"
	"github.com/pkarpov/navalka/internal/ws"
	staticserver "github.com/pkarpov/navalka/static"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides config)")
		configFlag  = flag.String("config", "", "Path to YAML config file")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Navalka - real-time multiplayer card game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080)
  --config PATH   Path to YAML config file

Environment Variables:
  NAVALKA_SERVER_PORT        Port to listen on (default: 8080)
  NAVALKA_SERVER_PUBLIC_URL  Public base URL for join links and QR codes
  NAVALKA_EXPORT_ENABLED     Export round results to file (default: true)
  NAVALKA_EXPORT_FILE        Path to the results file
  NAVALKA_LOG_LEVEL          Log level (default: info)

Visit http://localhost:8080 after starting the server.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Navalka %s\n", version)
		return
	}

	// pick up a local .env before the config layer reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *portFlag != "" {
		cfg.Server.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Room registry + socket transport
	reg := game.NewRegistry()
	sock := ws.New(reg, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Room directory API
	r.GET("/api/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": reg.ListWaiting()})
	})
	r.POST("/api/rooms", func(c *gin.Context) {
		room := reg.CreateRoom()
		c.JSON(http.StatusOK, gin.H{"room_id": room.ID})
	})
	r.GET("/api/rooms/:id/qr", func(c *gin.Context) {
		room, err := reg.Get(c.Param("id"))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		png, err := qrcode.Encode(cfg.Server.PublicURL+"/?room="+room.ID, qrcode.Medium, 256)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	// Serve frontend for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	zerologlog.Info().Str("port", cfg.Server.Port).Msg("listening")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server exited")
	}
}
