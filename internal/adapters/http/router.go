package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Lobby/internal/adapters/signal"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/auth"
	"github.com/dkeye/Lobby/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const sessionName = "LobbySessions"

// SetupRouter wires the REST endpoints, the static UI and the chat socket.
// ctx bounds every socket session; cancel it to drop them all.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, tokens *auth.TokenService, ice []webrtc.ICEServer) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore(cfg.SessionKey())
	store.Options(sessions.Options{Path: "/", MaxAge: int(cfg.TokenTTL.Seconds()), HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	h := &handlers{orch: o, tokens: tokens, ice: ice}
	if h.ice == nil {
		h.ice = []webrtc.ICEServer{}
	}

	r.GET("/health", h.health)

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	api := r.Group("/api")
	api.GET("/guest-token", h.guestToken)
	api.POST("/name", h.rename)
	api.GET("/rooms", h.listRooms)
	api.GET("/rooms/:name/members", h.roomMembers)
	api.GET("/ice-servers", h.iceServers)

	ctrl := signal.NewSignalWSController(o, tokens, cfg)
	r.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
