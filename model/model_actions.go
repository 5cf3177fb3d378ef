package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

var (
	ErrInvalidSize        = errors.New("rows and cols must be positive")
	ErrInvalidProbability = errors.New("start lit probability must be within [0,1]")
	ErrNotRectangular     = errors.New("grid rows differ in length")
	ErrOutOfBounds        = errors.New("position outside the grid")
	ErrGameOver           = errors.New("game is already won")
)

// directions in the order right, down, left, up
var directions = [4]Position{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Rows, c.Cols)
	}
	p := c.StartLitProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return nil
}

func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewGrid lights every cell independently with the configured probability.
// A nil rnd is replaced by cfg.Rand().
func NewGrid(cfg Config, rnd *rand.Rand) (Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = cfg.Rand()
	}
	grid := make(Grid, cfg.Rows)
	for r := 0; r < cfg.Rows; r++ {
		grid[r] = make([]bool, cfg.Cols)
		for c := 0; c < cfg.Cols; c++ {
			grid[r][c] = rnd.Float64() < cfg.StartLitProbability
		}
	}
	return grid, nil
}

// EmptyGrid returns a rows x cols grid with every light off.
func EmptyGrid(rows, cols int) Grid {
	grid := make(Grid, rows)
	for r := range grid {
		grid[r] = make([]bool, cols)
	}
	return grid
}

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) Validate() error {
	if g.Rows() == 0 || g.Cols() == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, g.Rows(), g.Cols())
	}
	for r, row := range g {
		if len(row) != g.Cols() {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrNotRectangular, r, len(row), g.Cols())
		}
	}
	return nil
}

func (g Grid) Inside(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows() && p.Col >= 0 && p.Col < g.Cols()
}

func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for r, row := range g {
		clone[r] = append([]bool(nil), row...)
	}
	return clone
}

func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(o[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// Neighbors returns the four orthogonal neighbours of p, in or out of bounds.
func (p Position) Neighbors() [4]Position {
	var n [4]Position
	for i, d := range directions {
		n[i] = Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
	}
	return n
}

// Toggle returns a new grid with p and its orthogonal neighbours flipped.
// Positions off the grid are skipped. g itself is left untouched.
func (g Grid) Toggle(p Position) Grid {
	next := g.Clone()
	next.flip(p)
	for _, n := range p.Neighbors() {
		next.flip(n)
	}
	return next
}

func (g Grid) flip(p Position) {
	if g.Inside(p) {
		g[p.Row][p.Col] = !g[p.Row][p.Col]
	}
}

// HasWon reports whether every light is off.
func (g Grid) HasWon() bool {
	for _, row := range g {
		for _, lit := range row {
			if lit {
				return false
			}
		}
	}
	return true
}

// Lit counts the lights that are on.
func (g Grid) Lit() int {
	count := 0
	for _, row := range g {
		for _, lit := range row {
			if lit {
				count++
			}
		}
	}
	return count
}

func stateOf(g Grid) GameState {
	if g.HasWon() {
		return WON
	}
	return PLAYING
}

// String renders the grid in the layouts file notation, O lit and . unlit.
func (g Grid) String() string {
	var b strings.Builder
	for r, row := range g {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, lit := range row {
			if lit {
				b.WriteByte(litChar)
			} else {
				b.WriteByte(unlitChar)
			}
		}
	}
	return b.String()
}
