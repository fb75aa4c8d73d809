package signal

import (
	"context"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleChat(ctx context.Context, sess core.MemberSession, data []byte) {
	text, err := protocol.DecodeChat(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sess.ID())).Msg("bad chat payload")
		return
	}
	if !ctl.Limiter.Allow(sess.Identity().User.ID) {
		log.Debug().Str("module", "signal").Str("sid", string(sess.ID())).Msg("chat rate limited")
		return
	}
	ctl.Orch.Chat(ctx, sess.ID(), text)
}

func (ctl *SignalWSController) handleRelay(ctx context.Context, sess core.MemberSession, kind string, data []byte) {
	req, err := protocol.DecodeSignal(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sess.ID())).Str("type", kind).Msg("bad relay payload")
		return
	}
	ctl.Orch.Relay(ctx, sess.ID(), kind, req.Target, req.Data)
}
