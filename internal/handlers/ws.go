package handlers

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper/internal/mines"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsForfeit wsCommand = "r"
)

var commandNargs = map[wsCommand]int{
	wsNoop:    0,
	wsOpen:    2,
	wsFlag:    2,
	wsChord:   2,
	wsForfeit: 0,
}

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

// runCommand applies one command line such as "o 3 4" to g.
func runCommand(g *mines.GameState, line string) ([]mines.Event, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil, nil
	}

	cmd := wsCommand(parts[0])
	nargs, ok := commandNargs[cmd]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return nil, fmt.Errorf("invalid number of arguments for %q", parts[0])
	}

	var move GameMove
	switch cmd {
	case wsNoop:
		return nil, nil
	case wsForfeit:
		g.Forfeit()
		return nil, nil
	case wsOpen:
		move = Reveal
	case wsFlag:
		move = Flag
	case wsChord:
		move = Chord
	}

	x, y, err := parseXY(parts[1:])
	if err != nil {
		return nil, err
	}
	out, err := move.apply(g, x, y)
	return out.Events, err
}

// runCommands applies newline-separated commands in order, stopping at the
// first bad one.
func runCommands(g *mines.GameState, text string) ([]mines.Event, error) {
	var events []mines.Event
	for _, line := range iterBySep(text, "\n") {
		ev, err := runCommand(g, line)
		events = append(events, ev...)
		if err != nil {
			return events, err
		}
	}
	return events, nil
}

func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()

	c.SetReadLimit(g.ws.ReadLimit)

	logger := g.logger.With(slog.String("id", session.GameSessionId.String()))
	logger.Debug("ws connected")

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		text := strings.TrimSpace(string(message))
		logger.Debug(fmt.Sprintf("\t> %s", text))

		var cmdErr error
		dto, err := snapshot(session, func(game *mines.GameState) ([]mines.Event, error) {
			events, err := runCommands(game, text)
			cmdErr = err
			return events, nil
		})
		if err != nil {
			logger.Error("unable to process commands", slog.Any("error", err))
			return
		}

		var reply any = dto
		if cmdErr != nil {
			logger.Debug("bad command", slog.Any("error", cmdErr))
			reply = wsError{Error: cmdErr.Error(), GameSessionDTO: dto}
		}
		if err := c.WriteJSON(reply); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				logger.Error("unable to write json", slog.Any("error", err))
			}
			break
		}
		logger.Debug("\t< <session data>")
	}
}

// wsError answers a message with a bad command; state changes made by the
// commands before it are kept and reported.
type wsError struct {
	Error string `json:"error"`
	*GameSessionDTO
}
