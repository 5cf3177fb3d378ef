package model

import "fmt"

// Position addresses one cell of the grid.
type Position struct {
	Row, Col int
}

// Grid holds the lights, Grid[row][col] is true when the cell is lit.
// A grid is never changed in place once it belongs to a Board.
type Grid [][]bool

// Config is supplied once when a game starts.
type Config struct {
	Rows, Cols          int
	StartLitProbability float64
	Seed                int64 // 0 seeds from the clock
}

type GameState int

const (
	PLAYING GameState = iota + 1
	WON
)

func (s GameState) Name() string {
	switch s {
	case PLAYING:
		return "PLAYING"
	case WON:
		return "WON"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// CellView is what a board hands to whatever draws a single cell.
// It is rebuilt on every render and should not be kept past it.
type CellView struct {
	Position Position
	IsLit    bool
	activate func()
}

// Activate forwards one activation of the cell to its board.
func (c CellView) Activate() {
	if c.activate != nil {
		c.activate()
	}
}

// View is either the grid of cells or, once the game is won, nothing but
// the won flag.
type View struct {
	Won        bool
	Rows, Cols int
	Cells      [][]CellView
}

// Layout is a named predefined grid.
type Layout struct {
	Name string
	Grid Grid
}

type Layouts []Layout
