package handlers

import (
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/render"
	"github.com/vancomm/minesweeper/internal/repository"
)

type testServer struct {
	*httptest.Server
	repo *repository.Queries
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ws, err := config.NewWebSocket(nil)
	require.NoError(t, err)
	renderer, err := render.New(10)
	require.NoError(t, err)

	repo := repository.New()
	game := NewGameHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		repo, ws, renderer,
		mines.Options{LockOnEnd: true},
		rand.New(rand.NewPCG(1, 2)),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /game", game.NewGame)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("POST /game/{id}/move", game.MakeAMove)
	mux.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	mux.HandleFunc("GET /game/{id}/board.png", game.BoardPNG)
	mux.HandleFunc("/game/{id}/connect", game.ConnectWS)

	s := &testServer{Server: httptest.NewServer(mux), repo: repo}
	t.Cleanup(s.Close)
	return s
}

// seed stores a game with bombs at the given points and returns its id.
func (s *testServer) seed(t *testing.T, width, height int, bombs ...mines.Point) string {
	t.Helper()
	b, err := mines.BoardFromBombs(width, height, bombs...)
	require.NoError(t, err)
	session := s.repo.CreateGameSession(mines.NewGameFromBoard(b, mines.Options{LockOnEnd: true}))
	return session.GameSessionId.String()
}

func (s *testServer) do(t *testing.T, method, path string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, nil)
	require.NoError(t, err)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeSession(t *testing.T, body []byte) GameSessionDTO {
	t.Helper()
	var dto GameSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto), string(body))
	return dto
}

func TestNewGame(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/game?width=9&height=8&bomb_count=10")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	dto := decodeSession(t, body)
	assert.Equal(t, 9, dto.Width)
	assert.Equal(t, 8, dto.Height)
	assert.Equal(t, 10, dto.BombCount)
	assert.Equal(t, "playing", dto.Status)
	assert.Len(t, dto.Grid, 72)
	for _, c := range dto.Grid {
		assert.Equal(t, mines.Unknown, c)
	}

	resp, body = s.do(t, http.MethodGet, "/game/"+dto.GameSessionId)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.GameSessionId, decodeSession(t, body).GameSessionId)
}

func TestNewGameBadParams(t *testing.T) {
	s := newTestServer(t)

	for _, query := range []string{
		"",
		"width=3&height=3",
		"width=a&height=3&bomb_count=1",
		"width=0&height=3&bomb_count=0",
		"width=2&height=2&bomb_count=5",
		"width=100000&height=100000&bomb_count=1",
		"width=4611686018427387905&height=4&bomb_count=4",
		"width=501&height=1&bomb_count=1",
		"width=400&height=400&bomb_count=1",
	} {
		resp, body := s.do(t, http.MethodPost, "/game?"+query)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		assert.Contains(t, string(body), `"error"`, query)
	}
}

func TestNewGameSizeLimits(t *testing.T) {
	_, err := ParseCreateNewGameDTO(map[string][]string{
		"width": {"500"}, "height": {"200"}, "bomb_count": {"1"},
	})
	assert.NoError(t, err, "exactly at the limits")

	_, err = ParseCreateNewGameDTO(map[string][]string{
		"width": {"500"}, "height": {"201"}, "bomb_count": {"1"},
	})
	assert.ErrorIs(t, err, mines.ErrBoardTooLarge)

	_, err = ParseCreateNewGameDTO(map[string][]string{
		"width": {"4611686018427387905"}, "height": {"4"}, "bomb_count": {"4"},
	})
	assert.ErrorIs(t, err, mines.ErrBoardTooLarge)
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/game/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/game/6f1c1b3e-2d7a-4c55-9a43-0b8e8f6c1d2a")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMakeAMove(t *testing.T) {
	s := newTestServer(t)
	id := s.seed(t, 3, 1, mines.Point{X: 0, Y: 0})

	resp, body := s.do(t, http.MethodPost, "/game/"+id+"/move?move=reveal&x=2&y=0")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	dto := decodeSession(t, body)
	assert.Equal(t, mines.GridInfo{mines.Unknown, 1, 0}, dto.Grid)
	assert.Empty(t, dto.Events)
	assert.Nil(t, dto.EndedAt)

	resp, body = s.do(t, http.MethodPost, "/game/"+id+"/move?move=flag&x=0&y=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dto = decodeSession(t, body)
	assert.Equal(t, []mines.Event{mines.EventWon}, dto.Events)
	assert.True(t, dto.Won)
	assert.Equal(t, "won", dto.Status)
	assert.NotNil(t, dto.EndedAt)
	assert.Equal(t, mines.CorrectFlag, dto.Grid[0])
	assert.Contains(t, string(body), `"events":["won"]`)
}

func TestMakeAMoveLoses(t *testing.T) {
	s := newTestServer(t)
	id := s.seed(t, 2, 1, mines.Point{X: 0, Y: 0})

	_, body := s.do(t, http.MethodPost, "/game/"+id+"/move?move=open&x=0&y=0")
	dto := decodeSession(t, body)
	assert.Equal(t, []mines.Event{mines.EventLost}, dto.Events)
	assert.True(t, dto.Dead)
	assert.Equal(t, mines.ExplodedMine, dto.Grid[0])

	_, body = s.do(t, http.MethodPost, "/game/"+id+"/move?move=reveal&x=0&y=0")
	assert.Empty(t, decodeSession(t, body).Events, "locked after the loss")
}

func TestMakeAMoveBadRequest(t *testing.T) {
	s := newTestServer(t)
	id := s.seed(t, 2, 2)

	for _, query := range []string{
		"move=dig&x=0&y=0",
		"move=reveal&x=0",
		"move=reveal&x=2&y=0",
		"move=flag&x=-1&y=0",
	} {
		resp, _ := s.do(t, http.MethodPost, "/game/"+id+"/move?"+query)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestForfeit(t *testing.T) {
	s := newTestServer(t)
	id := s.seed(t, 2, 1, mines.Point{X: 1, Y: 0})

	resp, body := s.do(t, http.MethodPost, "/game/"+id+"/forfeit")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dto := decodeSession(t, body)
	assert.Equal(t, "lost", dto.Status)
	assert.Equal(t, mines.GridInfo{1, mines.UnflaggedMine}, dto.Grid)
	assert.NotNil(t, dto.EndedAt)
}

func TestBoardPNG(t *testing.T) {
	s := newTestServer(t)
	id := s.seed(t, 4, 3)

	resp, body := s.do(t, http.MethodGet, "/game/"+id+"/board.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestConnectWS(t *testing.T) {
	s := newTestServer(t)
	id := s.seed(t, 3, 1, mines.Point{X: 0, Y: 0})

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/game/" + id + "/connect"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	send := func(text string) map[string]any {
		t.Helper()
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(text)))
		var reply map[string]any
		require.NoError(t, c.ReadJSON(&reply))
		return reply
	}

	reply := send("g")
	assert.Equal(t, "playing", reply["status"])

	reply = send("o 2 0\nf 0 0")
	assert.Equal(t, "won", reply["status"])
	assert.Equal(t, []any{"won"}, reply["events"])

	reply = send("x 1 1")
	assert.Contains(t, reply["error"], "unknown command")
	assert.Equal(t, "won", reply["status"], "the state rides along with the error")

	require.NoError(t, c.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	))
}

func TestConnectWSUnknownSession(t *testing.T) {
	s := newTestServer(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/game/6f1c1b3e-2d7a-4c55-9a43-0b8e8f6c1d2a/connect"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
