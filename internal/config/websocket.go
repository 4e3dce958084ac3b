package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// A command line is at most a letter and two coordinates, so one message of
// this size holds a few hundred batched commands.
const wsReadLimit = 4096

type WebSocket struct {
	Upgrader  websocket.Upgrader
	ReadLimit int64
}

// NewWebSocket upgrades connections from the allowed origins only. Requests
// without an Origin header come from non-browser clients and are let through.
func NewWebSocket(allowedOrigins []string) (*WebSocket, error) {
	allowed := OriginMatcher(allowedOrigins)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  wsReadLimit / 4,
		WriteBufferSize: wsReadLimit,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed(origin)
		},
	}

	ws := &WebSocket{
		Upgrader:  upgrader,
		ReadLimit: wsReadLimit,
	}

	return ws, nil
}

// OriginMatcher reports whether a browser origin may use the web API. An
// empty list or a "*" entry allows every origin.
func OriginMatcher(allowedOrigins []string) func(origin string) bool {
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		return func(string) bool { return true }
	}
	return func(origin string) bool {
		return slices.Contains(allowedOrigins, origin)
	}
}
