package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// handleValidateLive upgrades to a WebSocket and validates each text
// message as the creator types. Every message is a validateRequest; the
// reply is the same payload the REST endpoint returns.
func (s *Server) handleValidateLive(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		log.Printf("[api] live validate upgrade: %v", err)
		return
	}

	go func() {
		defer conn.Close()

		for {
			data, err := wsutil.ReadClientText(conn)
			if err != nil {
				// Closed connection or protocol error; either way the
				// session is over.
				return
			}

			var req validateRequest
			if err := json.Unmarshal(data, &req); err != nil {
				msg, _ := json.Marshal(errorResponse{Error: "invalid JSON message"})
				if err := wsutil.WriteServerText(conn, msg); err != nil {
					return
				}
				continue
			}

			resp, err := json.Marshal(s.validate(req))
			if err != nil {
				log.Printf("[api] live validate marshal: %v", err)
				return
			}
			if err := wsutil.WriteServerText(conn, resp); err != nil {
				return
			}
		}
	}()
}
