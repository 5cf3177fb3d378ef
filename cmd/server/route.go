package main

import (
	"fmt"
	"net/http"

	"github.com/matryer/way"
)

const URI_WS = "/play"
const URI_WS_LAYOUT = "/play/:layout"
const URI_HEALTH = "/health"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_WS_LAYOUT, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_HEALTH, s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "ok %dx%d, %d layouts\n", s.Settings.Rows, s.Settings.Cols, len(s.GameServer.Layouts))
}
