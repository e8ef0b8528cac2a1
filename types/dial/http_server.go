package dial

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// ProtocolServer is the wallet side of a local association.
type ProtocolServer interface {
	Logger() *slog.Logger
	Accept(ctx context.Context, c *websocket.Conn) error
}

// HTTPHandler upgrades requests that ask for proto, and hands the connection to s.
func HTTPHandler(s ProtocolServer, proto string) http.Handler {
	up := websocket.Upgrader{
		Subprotocols: []string{proto},
		CheckOrigin:  func(*http.Request) bool { return true },
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !websocket.IsWebSocketUpgrade(r) {
			http.Error(w, "wallet endpoint requires a websocket upgrade", http.StatusUpgradeRequired)
			return
		}

		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			s.Logger().Warn("upgrade failed", "error", err, "peer", r.RemoteAddr)
			return
		}

		if c.Subprotocol() != proto {
			s.Logger().Warn("odd sub-protocol requested", "protocols", websocket.Subprotocols(r), "peer", r.RemoteAddr)
		}

		if err := s.Accept(r.Context(), c); err != nil {
			s.Logger().Warn("accept returned error", "error", err, "peer", r.RemoteAddr)
		}
	})
}
