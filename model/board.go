package model

import "fmt"

// Observer is told about every grid replacement. The grid it receives is a
// copy and may be kept.
type Observer func(grid Grid, state GameState)

// Board owns one game: the current grid and the PLAYING/WON state machine.
// It is not safe for concurrent use; whoever hosts it serialises the calls.
type Board struct {
	grid      Grid
	state     GameState
	observers []Observer
}

// NewBoard starts a game with a random grid.
func NewBoard(cfg Config) (*Board, error) {
	grid, err := NewGrid(cfg, cfg.Rand())
	if err != nil {
		return nil, err
	}
	return &Board{grid: grid, state: stateOf(grid)}, nil
}

// NewBoardFromGrid starts a game on a predefined grid. A grid that is already
// dark starts out WON.
func NewBoardFromGrid(grid Grid) (*Board, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	grid = grid.Clone()
	return &Board{grid: grid, state: stateOf(grid)}, nil
}

func (b *Board) Grid() Grid {
	return b.grid.Clone()
}

func (b *Board) State() GameState {
	return b.state
}

func (b *Board) Subscribe(o Observer) {
	b.observers = append(b.observers, o)
}

// ToggleAround flips p and its neighbours. Once the game is won nothing can
// be toggled anymore.
func (b *Board) ToggleAround(p Position) error {
	if b.state == WON {
		return ErrGameOver
	}
	if !b.grid.Inside(p) {
		return fmt.Errorf("%w: row %d col %d", ErrOutOfBounds, p.Row, p.Col)
	}
	b.replace(b.grid.Toggle(p))
	return nil
}

func (b *Board) replace(grid Grid) {
	b.grid = grid
	b.state = stateOf(grid)
	for _, o := range b.observers {
		o(grid.Clone(), b.state)
	}
}

// Render builds the view of the current grid whose cells toggle this board.
func (b *Board) Render() View {
	return Render(b.grid, b.state, func(p Position) {
		_ = b.ToggleAround(p)
	})
}

// Render builds a view of grid. Every cell gets its own handler that calls
// toggle with that cell's position.
func Render(grid Grid, state GameState, toggle func(Position)) View {
	if state == WON || grid.HasWon() {
		return View{Won: true}
	}
	view := View{
		Rows:  grid.Rows(),
		Cols:  grid.Cols(),
		Cells: make([][]CellView, grid.Rows()),
	}
	for r, row := range grid {
		view.Cells[r] = make([]CellView, len(row))
		for c, lit := range row {
			p := Position{Row: r, Col: c}
			cell := CellView{Position: p, IsLit: lit}
			if toggle != nil {
				cell.activate = func() { toggle(p) }
			}
			view.Cells[r][c] = cell
		}
	}
	return view
}
