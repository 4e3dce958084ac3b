package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginMatcher(t *testing.T) {
	assert.True(t, OriginMatcher(nil)("https://anything.example"))
	assert.True(t, OriginMatcher([]string{"*"})("https://anything.example"))

	only := OriginMatcher([]string{"https://mines.example"})
	assert.True(t, only("https://mines.example"))
	assert.False(t, only("https://evil.example"))
	assert.False(t, only("http://mines.example"))
}

func TestWebSocketCheckOrigin(t *testing.T) {
	ws, err := NewWebSocket([]string{"https://mines.example"})
	require.NoError(t, err)
	assert.Equal(t, int64(wsReadLimit), ws.ReadLimit)

	for origin, want := range map[string]bool{
		"":                      true,
		"https://mines.example": true,
		"https://evil.example":  false,
	} {
		r := httptest.NewRequest(http.MethodGet, "/game/x/connect", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		assert.Equal(t, want, ws.Upgrader.CheckOrigin(r), origin)
	}
}
