// Package rtc turns configured STUN/TURN servers into the ICE server list
// browsers use when they set up calls relayed over the chat socket.
package rtc

import (
	"errors"
	"fmt"

	"github.com/dkeye/Lobby/internal/config"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

var ErrTURNCredentials = errors.New("turn server requires username and credential")

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{
		{URLs: []string{"stun:stun.l.google.com:19302"}},
	}
}

// ICEServers validates every configured URL and builds the client-facing list.
// An empty configuration falls back to DefaultICEServers.
func ICEServers(cfg []config.ICEServer) ([]webrtc.ICEServer, error) {
	if len(cfg) == 0 {
		return DefaultICEServers(), nil
	}
	out := make([]webrtc.ICEServer, 0, len(cfg))
	for _, s := range cfg {
		if len(s.URLs) == 0 {
			return nil, errors.New("ice server without urls")
		}
		for _, raw := range s.URLs {
			uri, err := stun.ParseURI(raw)
			if err != nil {
				return nil, fmt.Errorf("ice server %q: %w", raw, err)
			}
			if isTURN(uri) && (s.Username == "" || s.Credential == "") {
				return nil, fmt.Errorf("ice server %q: %w", raw, ErrTURNCredentials)
			}
		}
		server := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	return out, nil
}

func isTURN(uri *stun.URI) bool {
	return uri.Scheme == stun.SchemeTypeTURN || uri.Scheme == stun.SchemeTypeTURNS
}
