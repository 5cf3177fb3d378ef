// Package client plays a board hosted by the game server.
package client

import (
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lightsout/model"
)

// Remote mirrors a server side board. It renders the last snapshot the
// server sent and forwards activations to the server.
type Remote struct {
	conn    *websocket.Conn
	changes chan struct{}

	mu   sync.Mutex
	last model.ServerMessage
	err  error

	writeMu sync.Mutex
}

// Dial connects to url (ws://host/play or ws://host/play/<layout>) and waits
// for the first snapshot.
func Dial(url string) (*Remote, error) {
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	r := &Remote{
		conn:    conn,
		changes: make(chan struct{}, 1),
	}
	setup, err := r.read()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading setup: %w", err)
	}
	r.last = setup
	log.WithField("session", setup.Session).Infof("joined %dx%d board", setup.Rows, setup.Cols)
	go r.loopRead()
	return r, nil
}

func (r *Remote) read() (model.ServerMessage, error) {
	mes := model.ServerMessage{}
	_, reader, err := r.conn.NextReader()
	if err != nil {
		return mes, err
	}
	err = gob.NewDecoder(reader).Decode(&mes)
	return mes, err
}

func (r *Remote) loopRead() {
	for {
		mes, err := r.read()
		r.mu.Lock()
		if err != nil {
			r.err = err
		} else {
			r.last = mes
		}
		r.mu.Unlock()
		r.notify()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("Remote.loopRead: %v", err)
			}
			return
		}
	}
}

func (r *Remote) notify() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

// Changes signals that a new snapshot (or an error) arrived.
func (r *Remote) Changes() <-chan struct{} {
	return r.changes
}

// ToggleAround sends the activation to the server. The local snapshot only
// changes once the server answers.
func (r *Remote) ToggleAround(p model.Position) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	w, err := r.conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(model.ClientMessage{Row: p.Row, Col: p.Col}); err != nil {
		return err
	}
	return w.Close()
}

func (r *Remote) Render() model.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.Render(r.last.Lit, r.last.State, func(p model.Position) {
		if err := r.ToggleAround(p); err != nil {
			log.Warnf("Remote.ToggleAround %v: %v", p, err)
		}
	})
}

func (r *Remote) Grid() model.Grid {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.Lit.Clone()
}

func (r *Remote) State() model.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.State
}

func (r *Remote) Session() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.Session
}

// Err is the error that stopped the connection, if any.
func (r *Remote) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close says goodbye to the server and drops the connection.
func (r *Remote) Close() error {
	r.writeMu.Lock()
	err := r.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	r.writeMu.Unlock()
	if cerr := r.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
