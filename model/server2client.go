package model

// ClientMessage activates one cell of the player's board.
type ClientMessage struct {
	Row, Col int
}

// ServerMessage is a full snapshot of the board, sent on connect and after
// every accepted toggle.
type ServerMessage struct {
	Session    string
	Rows, Cols int
	Lit        Grid
	State      GameState
}

func NewServerMessage(session string, grid Grid, state GameState) ServerMessage {
	return ServerMessage{
		Session: session,
		Rows:    grid.Rows(),
		Cols:    grid.Cols(),
		Lit:     grid,
		State:   state,
	}
}

func (m ClientMessage) Position() Position {
	return Position{Row: m.Row, Col: m.Col}
}
