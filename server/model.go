package server

import (
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/model"
)

type GameServer struct {
	Config       model.Config
	Layouts      model.Layouts
	GameSessions map[string]*GameSession
	GameRequests chan GameRequest
	Finished     chan *GameSession
	Upgrader     *websocket.Upgrader
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_WON
	GS_ERR
	GS_OVER
)

// GameSession hosts one board for one player. Only its Loop goroutine
// touches the board.
type GameSession struct {
	Id                    string
	State                 GameSessionState
	Board                 *model.Board
	PlayerSession         *PlayerSession
	Errors                chan error
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest
	Finished              chan<- *GameSession

	log *log.Entry
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}
	done        chan struct{}

	MessagesToSend chan model.ServerMessage
}
