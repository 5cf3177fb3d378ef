package main

import (
	"github.com/zucenko/lightsout/model"
)

// Table is what the window plays: a local *model.Board or a *client.Remote.
type Table interface {
	Render() model.View
	Grid() model.Grid
	State() model.GameState
}

// Tile is the drawn counterpart of one cell. It only remembers what it
// showed last so a change can be animated.
type Tile struct {
	Position model.Position
	lit      bool
	fade     float64 // 0 just flipped, 1 settled
}
