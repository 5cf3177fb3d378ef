package server

import (
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/lightsout/model"
)

const testLayouts = `# cross
.O.
OOO
.O.

# dark
..
..
`

func newTestServer(t *testing.T, cfg model.Config) (*GameServer, *httptest.Server) {
	t.Helper()
	layouts, err := model.ReadLayouts(strings.NewReader(testLayouts))
	require.NoError(t, err)
	gs := NewGameServer(cfg, layouts)
	go gs.Loop()

	router := way.NewRouter()
	router.HandleFunc("GET", "/play", gs.HandleHttpCall())
	router.HandleFunc("GET", "/play/:layout", gs.HandleHttpCall())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return gs, srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func readSnapshot(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, r, err := conn.NextReader()
	require.NoError(t, err)
	mes := model.ServerMessage{}
	require.NoError(t, gob.NewDecoder(r).Decode(&mes))
	return mes
}

func sendToggle(t *testing.T, conn *websocket.Conn, row, col int) {
	t.Helper()
	w, err := conn.NextWriter(websocket.BinaryMessage)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(w).Encode(model.ClientMessage{Row: row, Col: col}))
	require.NoError(t, w.Close())
}

func TestPlayLayoutToWin(t *testing.T) {
	_, srv := newTestServer(t, model.Config{Rows: 3, Cols: 3, StartLitProbability: .5})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/play/cross"), nil)
	require.NoError(t, err)
	defer conn.Close()

	setup := readSnapshot(t, conn)
	assert.NotEmpty(t, setup.Session)
	assert.Equal(t, 3, setup.Rows)
	assert.Equal(t, 3, setup.Cols)
	assert.Equal(t, model.PLAYING, setup.State)
	assert.Equal(t, model.EmptyGrid(3, 3).Toggle(model.Position{Row: 1, Col: 1}), setup.Lit)

	sendToggle(t, conn, 0, 0)
	step := readSnapshot(t, conn)
	assert.Equal(t, setup.Session, step.Session)
	assert.Equal(t, setup.Lit.Toggle(model.Position{Row: 0, Col: 0}), step.Lit)

	// out of bounds is ignored and the session stays up
	sendToggle(t, conn, 7, 7)
	sendToggle(t, conn, 0, 0)
	step = readSnapshot(t, conn)
	assert.Equal(t, setup.Lit, step.Lit)

	sendToggle(t, conn, 1, 1)
	won := readSnapshot(t, conn)
	assert.Equal(t, model.WON, won.State)
	assert.True(t, won.Lit.HasWon())
}

func TestPlayRandomBoard(t *testing.T) {
	_, srv := newTestServer(t, model.Config{Rows: 4, Cols: 6, StartLitProbability: 1})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/play"), nil)
	require.NoError(t, err)
	defer conn.Close()

	setup := readSnapshot(t, conn)
	assert.Equal(t, 4, setup.Rows)
	assert.Equal(t, 6, setup.Cols)
	assert.Equal(t, 24, setup.Lit.Lit())
}

func TestDarkLayoutStartsWon(t *testing.T) {
	_, srv := newTestServer(t, model.Config{Rows: 3, Cols: 3})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/play/dark"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, model.WON, readSnapshot(t, conn).State)
}

func TestUnknownLayout(t *testing.T) {
	_, srv := newTestServer(t, model.Config{Rows: 3, Cols: 3})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/play/nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidConfig(t *testing.T) {
	_, srv := newTestServer(t, model.Config{Rows: 0, Cols: 3})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/play"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionFinishesWhenPlayerLeaves(t *testing.T) {
	_, srv := newTestServer(t, model.Config{Rows: 2, Cols: 2, StartLitProbability: 1})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/play"), nil)
	require.NoError(t, err)
	readSnapshot(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	// the server closes its end once the session is over
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.NextReader()
	assert.Error(t, err)
	conn.Close()
}

func TestGameSessionTurn(t *testing.T) {
	board, err := model.NewBoardFromGrid(model.Grid{{true}})
	require.NoError(t, err)
	gs := &GameSession{Board: board, State: GS_PLAY, log: log.WithField("session", "test")}

	notified := 0
	board.Subscribe(func(model.Grid, model.GameState) { notified++ })

	gs.Turn(PlayerEvent{Position: model.Position{}})
	assert.Equal(t, GS_WON, gs.State)
	assert.Equal(t, 1, notified)
}

func TestResponseCodes(t *testing.T) {
	assert.Equal(t, HTTP_SUCCESS, GAME_READY.ToHttp())
	assert.Equal(t, HTTP_NOT_FOUND, GAME_NOT_FOUND.ToHttp())
	assert.Equal(t, HTTP_BAD_REQUEST, GAME_INVALIDE.ToHttp())
	assert.Panics(t, func() { ResponseCode(42).ToHttp() })
	assert.Equal(t, "GS_WON", GS_WON.Name())
	assert.Equal(t, "PLAY", PS_PLAY.Name())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.txt")
	require.NoError(t, os.WriteFile(path, []byte(testLayouts), 0o644))

	layouts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cross", "dark"}, layouts.Names())

	require.NoError(t, os.WriteFile(path, []byte("# bad\nOX\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, model.ErrBadLayout)

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
