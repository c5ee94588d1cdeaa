package handlers

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/pager"
	"github.com/MrSnakeDoc/sip/internal/realtime"
)

// WS upgrades to a websocket that receives state pushes and drives a
// pager owned by this connection.
func WS(d deps.Deps) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(d.CORSOrigins) > 0 {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(d.CORSOrigins, origin) || sameOrigin(r)
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Debug("websocket upgrade failed", logger.Error(err))
			return
		}

		p := pager.New()

		open := func(c *realtime.Client) {
			v := currentView(r, d, p.SetPage(p.Current()))
			if err := c.Send(realtime.StateMessage(v, true)); err != nil {
				d.Logger.Debug("failed to send initial state", logger.Error(err))
			}
		}

		handle := func(c *realtime.Client, data []byte) {
			var ev pager.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				_ = c.Send(realtime.ErrorMessage(err))
				return
			}
			frame, err := p.Apply(ev)
			if err != nil {
				_ = c.Send(realtime.ErrorMessage(err))
				return
			}
			_ = c.Send(realtime.PagerMessage(frame))
		}

		d.Hub.Serve(conn, open, handle)
	}
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
