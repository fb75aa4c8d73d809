package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/auth"
	"github.com/dkeye/Lobby/internal/config"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Verifier auth.Verifier
	Limiter  *ChatRateLimiter
	cfg      *config.Config
}

func NewSignalWSController(o *orch.Orchestrator, v auth.Verifier, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:     o,
		Verifier: v,
		Limiter:  NewChatRateLimiter(cfg.ChatRateLimit, cfg.ChatRateInterval),
		cfg:      cfg,
	}
}

// wsSignalConn queues frames for the write pump. Once closed it rejects
// every frame with core.ErrConnClosed.
type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWSSignalConn(ws *websocket.Conn, buffer int) *wsSignalConn {
	return &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) token(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	return auth.BearerToken(c.GetHeader("Authorization"))
}

// HandleSignal upgrades the request and runs the session until either side
// goes away. A bad credential closes the socket with a policy violation
// before any room is touched.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	identity, authErr := ctl.Verifier.Verify(ctl.token(c))

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	if authErr != nil {
		log.Info().Err(authErr).Str("module", "signal").Str("remote", c.ClientIP()).Msg("rejected connection")
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, authErr.Error())
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(ctl.cfg.WriteWait))
		_ = ws.Close()
		return
	}

	identity.Room = domain.SanitizeRoomName(string(identity.Room))
	sid := core.SessionID(uuid.NewString())
	conn := newWSSignalConn(ws, ctl.cfg.SendBuffer)
	sess := core.NewMemberSession(sid, identity, conn)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", string(identity.User.ID)).Str("room", string(identity.Room)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	// the greeting is queued during Join, so something must already be draining
	go ctl.writePump(ctx, conn)
	ctl.Orch.Join(ctx, sess, cancel)
	go ctl.readPump(ctx, cancel, sess, conn)
}
