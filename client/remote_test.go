package client

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/lightsout/model"
	"github.com/zucenko/lightsout/server"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	layouts, err := model.ReadLayouts(strings.NewReader("# corner\nOO\nO.\n"))
	require.NoError(t, err)
	gs := server.NewGameServer(model.Config{Rows: 3, Cols: 3, StartLitProbability: 1}, layouts)
	go gs.Loop()

	router := way.NewRouter()
	router.HandleFunc("GET", "/play", gs.HandleHttpCall())
	router.HandleFunc("GET", "/play/:layout", gs.HandleHttpCall())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitChange(t *testing.T, r *Remote) {
	t.Helper()
	select {
	case <-r.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot from server")
	}
}

func TestRemotePlaysToWin(t *testing.T) {
	base := newTestServer(t)

	r, err := Dial(base + "/play/corner")
	require.NoError(t, err)
	defer r.Close()

	assert.NotEmpty(t, r.Session())
	assert.Equal(t, model.PLAYING, r.State())
	assert.Equal(t, model.Grid{{true, true}, {true, false}}, r.Grid())

	view := r.Render()
	require.False(t, view.Won)
	require.Len(t, view.Cells, 2)
	assert.True(t, view.Cells[0][1].IsLit)
	assert.False(t, view.Cells[1][1].IsLit)

	view.Cells[0][0].Activate()
	waitChange(t, r)

	assert.Equal(t, model.WON, r.State())
	assert.True(t, r.Render().Won)
	assert.NoError(t, r.Err())
}

func TestRemoteRandomBoard(t *testing.T) {
	base := newTestServer(t)

	r, err := Dial(base + "/play")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 9, r.Grid().Lit())

	require.NoError(t, r.ToggleAround(model.Position{Row: 1, Col: 1}))
	waitChange(t, r)
	assert.Equal(t, model.Grid{{true, false, true}, {false, false, false}, {true, false, true}}, r.Grid())
}

func TestDialUnknownLayout(t *testing.T) {
	base := newTestServer(t)

	_, err := Dial(base + "/play/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
