package server

import (
	"encoding/gob"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/model"
)

const (
	requestTimeout = 200 * time.Millisecond
	joinTimeout    = 5 * time.Second
)

func NewGameServer(cfg model.Config, layouts model.Layouts) *GameServer {
	return &GameServer{
		Config:       cfg,
		Layouts:      layouts,
		GameSessions: make(map[string]*GameSession),
		GameRequests: make(chan GameRequest),
		Finished:     make(chan *GameSession),
		Upgrader:     &websocket.Upgrader{},
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layout := way.Param(r.Context(), "layout")
		log.Debugf("HandleHttpCall - connection received, layout %q", layout)

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{Layout: layout, GameContextAwaiting: gcas}:
		case <-time.After(requestTimeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			log.Debugf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
			if gca.ResponseCode != GAME_READY {
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(requestTimeout):
			log.Warn("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		// the upgrader answers the client itself on failure, the session
		// gives up after joinTimeout
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-time.After(requestTimeout):
			log.Warn("HandleHttpCall PlayerConnectRequests TIMEOUTED")
			return
		}

		<-gameOver
		log.Debug("HandleHttpCall game over")
	}
}

// Loop hands out sessions and forgets finished ones. It owns GameSessions.
func (s *GameServer) Loop() {
	log.Info("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			gs, code := s.newGameSession(gameReq.Layout)
			if gs != nil {
				s.GameSessions[gs.Id] = gs
				go gs.Loop()
			}
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: code,
				GameSession:  gs,
			}
		case gs := <-s.Finished:
			delete(s.GameSessions, gs.Id)
			gs.log.Infof("GameServer.Loop session finished in %s, %d running", gs.State.Name(), len(s.GameSessions))
		}
	}
}

func (s *GameServer) newGameSession(layout string) (*GameSession, ResponseCode) {
	var board *model.Board
	var err error
	if layout == "" {
		board, err = model.NewBoard(s.Config)
	} else {
		grid, found := s.Layouts.Find(layout)
		if !found {
			log.Warnf("layout %q not found", layout)
			return nil, GAME_NOT_FOUND
		}
		board, err = model.NewBoardFromGrid(grid)
	}
	if err != nil {
		log.Errorf("cant create board: %v", err)
		return nil, GAME_INVALIDE
	}

	id := uuid.New().String()
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Board:                 board,
		Errors:                make(chan error),
		Events:                make(chan PlayerEvent),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		Finished:              s.Finished,
		log:                   log.WithField("session", id),
	}
	gs.log.Infof("created %dx%d session, layout %q", board.Grid().Rows(), board.Grid().Cols(), layout)
	return gs, GAME_READY
}

func (gs *GameSession) Loop() {
	gs.log.Debug("GameSession.Loop start")
	defer gs.finish()

	select {
	case pcr := <-gs.PlayerConnectRequests:
		gs.addPlayer(pcr.Con, pcr.GameOver)
	case <-time.After(joinTimeout):
		gs.log.Warn("GameSession.Loop no player joined")
		gs.State = GS_ERR
		return
	}

	gs.State = gs.stateOfBoard()
	gs.PlayerSession.State = PS_PLAY
	gs.send(gs.MakeGameSetupMessage())

	for {
		select {
		case err := <-gs.Errors:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				gs.log.Infof("player left in %s", gs.State.Name())
				gs.State = GS_OVER
				gs.PlayerSession.State = PS_OVER
			} else {
				gs.log.Warnf("player session failed: %v", err)
				gs.State = GS_ERR
				gs.PlayerSession.State = PS_ERR
			}
			return
		case pe := <-gs.Events:
			gs.Turn(pe)
		}
	}
}

// Turn applies one activation. Rejected activations leave the session
// running, the client keeps its last snapshot.
func (gs *GameSession) Turn(pe PlayerEvent) {
	if err := gs.Board.ToggleAround(pe.Position); err != nil {
		gs.log.Warnf("GameSession.Turn %v rejected: %v", pe.Position, err)
		return
	}
	gs.State = gs.stateOfBoard()
	if gs.State == GS_WON {
		gs.log.Info("GameSession.Turn board is dark, game won")
	}
}

func (gs *GameSession) stateOfBoard() GameSessionState {
	if gs.Board.State() == model.WON {
		return GS_WON
	}
	return GS_PLAY
}

func (gs *GameSession) finish() {
	if ps := gs.PlayerSession; ps != nil {
		close(ps.done)
		ps.Conn.Close()
		close(ps.GameOver)
	}
	gs.Finished <- gs
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) {
	gs.log.Debug("GameSession.addPlayer")
	ps := &PlayerSession{
		State:          PS_NEW,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		done:           make(chan struct{}),
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Temporary() {
				return nil
			}
			return err
		})
	gs.Board.Subscribe(func(grid model.Grid, state model.GameState) {
		gs.send(model.NewServerMessage(gs.Id, grid, state))
	})
	gs.PlayerSession = ps

	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
}

// send queues a snapshot without ever blocking the session loop. Snapshots
// are complete, so when the queue is full the oldest one is dropped.
func (gs *GameSession) send(mes model.ServerMessage) {
	ps := gs.PlayerSession
	for {
		select {
		case ps.MessagesToSend <- mes:
			return
		default:
			select {
			case <-ps.MessagesToSend:
				gs.log.Warn("GameSession.send queue full, dropping oldest snapshot")
			default:
			}
		}
	}
}

func (gs *GameSession) MakeGameSetupMessage() model.ServerMessage {
	return model.NewServerMessage(gs.Id, gs.Board.Grid(), gs.Board.State())
}

// report hands an error to the session loop unless it is already gone.
func (ps *PlayerSession) report(err error) {
	select {
	case ps.GameSession.Errors <- err:
	case <-ps.done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := ps.GameSession.log
	logger.Debug("LoopChannelRead STARTED")
	defer logger.Debug("LoopChannelRead ENDED")
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			ps.report(err)
			return
		}
		cm := model.ClientMessage{}
		if err := gob.NewDecoder(r).Decode(&cm); err != nil {
			logger.Warnf("LoopChannelRead cant decode: %v", err)
			ps.report(err)
			return
		}
		select {
		case ps.GameSession.Events <- PlayerEvent{Position: cm.Position()}:
		case <-ps.done:
			return
		}
	}
}

// LoopChannelWrite only consumes, a full buffer never blocks it.
func (ps *PlayerSession) LoopChannelWrite() {
	logger := ps.GameSession.log
	logger.Debug("LoopChannelWrite STARTED")
	defer logger.Debug("LoopChannelWrite ENDED")
	for {
		select {
		case mes := <-ps.MessagesToSend:
			if err := ps.write(mes); err != nil {
				logger.Warnf("LoopChannelWrite cant write: %v", err)
				ps.report(err)
				return
			}
		case <-ps.done:
			return
		}
	}
}

func (ps *PlayerSession) write(mes model.ServerMessage) error {
	w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(mes); err != nil {
		return err
	}
	return w.Close()
}
