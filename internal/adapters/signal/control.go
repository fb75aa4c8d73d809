package signal

import (
	"time"

	"github.com/dkeye/Lobby/internal/protocol"
)

func (ctl *SignalWSController) handlePing(conn *wsSignalConn) {
	ctl.sendJSON(conn, protocol.NewPong(time.Now().UnixMilli()))
}
