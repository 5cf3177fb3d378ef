package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/lightsout/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	size   = 64
	header = 48
	// seconds per frame, ebiten runs update at 60 TPS
	frameTime = float32(1) / 60
)

var errQuit = errors.New("quit")

func HexToF32(u uint32, id int) GameColor {
	b := float64(0xff&u) / 255
	g := float64(0xff&(u>>8)) / 255
	r := float64(0xff&(u>>16)) / 255
	return GameColor{r, g, b, id}
}

type GameColor struct {
	r  float64
	g  float64
	b  float64
	id int
}

var COLOR_UNLIT = HexToF32(0x22223a, 1)
var COLOR_LIT = HexToF32(0xedbc1e, 2)
var COLOR_FRAME = HexToF32(0x8888aa, 3)
var COLOR_FRAME_WON = HexToF32(0x0abd38, 4)

func (c GameColor) mix(o GameColor, f float64) GameColor {
	return GameColor{
		r:  c.r + (o.r-c.r)*f,
		g:  c.g + (o.g-c.g)*f,
		b:  c.b + (o.b-c.b)*f,
		id: o.id,
	}
}

// Draw draws the tile at its grid position.
func (t *Tile) Draw(screen *ebiten.Image, square *ebiten.Image, tileSize int) {
	from, to := COLOR_LIT, COLOR_UNLIT
	if t.lit {
		from, to = COLOR_UNLIT, COLOR_LIT
	}
	c := from.mix(to, t.fade)
	scale := float64(tileSize) / size
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale*.92, scale*.92)
	op.GeoM.Translate(
		float64(t.Position.Col*tileSize)+float64(tileSize)*.04,
		float64(header+t.Position.Row*tileSize)+float64(tileSize)*.04)
	op.ColorM.Scale(c.r, c.g, c.b, 1)
	screen.DrawImage(square, op)
}

// StrokeSource represents a input device to provide strokes.
type StrokeSource interface {
	Position() (int, int)
	IsJustReleased() bool
}

// MouseStrokeSource is a StrokeSource implementation of mouse.
type MouseStrokeSource struct{}

func (m *MouseStrokeSource) Position() (int, int) {
	return ebiten.CursorPosition()
}

func (m *MouseStrokeSource) IsJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// TouchStrokeSource is a StrokeSource implementation of touch.
type TouchStrokeSource struct {
	ID int
}

func (t *TouchStrokeSource) Position() (int, int) {
	return ebiten.TouchPosition(t.ID)
}

func (t *TouchStrokeSource) IsJustReleased() bool {
	return inpututil.IsTouchJustReleased(t.ID)
}

// Stroke follows one press from its start until release. A stroke that
// wanders off the cell it started on is cancelled.
type Stroke struct {
	source StrokeSource

	initX int
	initY int

	currentX int
	currentY int

	released  bool
	cancelled bool
}

func NewStroke(source StrokeSource) *Stroke {
	cx, cy := source.Position()
	return &Stroke{
		source:   source,
		initX:    cx,
		initY:    cy,
		currentX: cx,
		currentY: cy,
	}
}

func (s *Stroke) Update() {
	if s.released {
		return
	}
	if s.source.IsJustReleased() {
		s.released = true
		return
	}
	x, y := s.source.Position()
	s.currentX = x
	s.currentY = y
}

func (s *Stroke) IsReleased() bool {
	return s.released
}

func (s *Stroke) Position() (int, int) {
	return s.currentX, s.currentY
}

func (s *Stroke) PositionDiff() (int, int) {
	dx := s.currentX - s.initX
	dy := s.currentY - s.initY
	return dx, dy
}

type Game struct {
	Options Options
	Table   Table
	Frame   *Nine
	Tweens  map[*gween.Tween]*Action

	strokes   map[*Stroke]struct{}
	tiles     map[model.Position]*Tile
	cols      int
	rows      int
	tileSize  int
	square    *ebiten.Image
	wonAlpha  float64
	won       bool
	lit       int
	LitLabel  *ebiten.Image
	WonLabel  *ebiten.Image
	font      font.Face
	smallFont font.Face
}

func loadFaces() (big, small font.Face, err error) {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, nil, err
	}
	const dpi = 72
	big = truetype.NewFace(tt, &truetype.Options{
		Size:    40,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	small = truetype.NewFace(tt, &truetype.Options{
		Size:    20,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	return big, small, nil
}

func NewGame(o Options, table Table) (*Game, error) {
	big, small, err := loadFaces()
	if err != nil {
		return nil, err
	}
	square, err := ebiten.NewImage(size, size, ebiten.FilterDefault)
	if err != nil {
		return nil, err
	}
	if err := square.Fill(color.White); err != nil {
		return nil, err
	}
	frame, err := newFrame(COLOR_FRAME)
	if err != nil {
		return nil, err
	}
	grid := table.Grid()
	g := &Game{
		Options:   o,
		Frame:     frame,
		Tweens:    make(map[*gween.Tween]*Action),
		strokes:   map[*Stroke]struct{}{},
		cols:      grid.Cols(),
		rows:      grid.Rows(),
		tileSize:  size,
		square:    square,
		smallFont: small,
		lit:       -1,
	}
	g.WonLabel = g.prepareTextImage("You won!", big, 300, 60)
	g.setTable(table)
	return g, nil
}

func (g *Game) screenSize() (int, int) {
	return g.cols * size, g.rows*size + header
}

// setTable switches to a new game, keeping the window as it is.
func (g *Game) setTable(table Table) {
	if closer, ok := g.Table.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warnf("closing previous table: %v", err)
		}
	}
	g.Table = table
	g.Tweens = make(map[*gween.Tween]*Action)
	g.won = false
	g.wonAlpha = 0
	g.Frame.SetColor(COLOR_FRAME)

	grid := table.Grid()
	screenW, screenH := g.screenSize()
	g.tileSize = size
	if grid.Cols() > 0 && grid.Rows() > 0 {
		g.tileSize = min(screenW/grid.Cols(), (screenH-header)/grid.Rows())
	}
	g.tiles = make(map[model.Position]*Tile)
	for r, row := range grid {
		for c, lit := range row {
			p := model.Position{Row: r, Col: c}
			g.tiles[p] = &Tile{Position: p, lit: lit, fade: 1}
		}
	}
	g.Frame.SetPosition(0, header)
	g.Frame.SetSize(grid.Cols()*g.tileSize, grid.Rows()*g.tileSize)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (g *Game) prepareTextImage(s string, face font.Face, w, h int) *ebiten.Image {
	image, _ := ebiten.NewImage(w, h, ebiten.FilterLinear)
	text.Draw(image, s, face, 5, h*2/3, color.White)
	return image
}

// cellAt maps a screen position to the grid, ok is false outside of it.
func (g *Game) cellAt(x, y int) (model.Position, bool) {
	if y < header || x < 0 {
		return model.Position{}, false
	}
	p := model.Position{Row: (y - header) / g.tileSize, Col: x / g.tileSize}
	_, ok := g.tiles[p]
	return p, ok
}

func (g *Game) updateStroke(stroke *Stroke, view model.View) {
	stroke.Update()
	xDif, yDif := stroke.PositionDiff()
	if abs(xDif) > g.tileSize/2 || abs(yDif) > g.tileSize/2 {
		stroke.cancelled = true
	}
	if !stroke.IsReleased() || stroke.cancelled || view.Won {
		return
	}
	p, ok := g.cellAt(stroke.Position())
	if !ok {
		return
	}
	view.Cells[p.Row][p.Col].Activate()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// sync starts a flip animation for every tile whose light changed and the
// won animation once the board is dark.
func (g *Game) sync(view model.View) {
	var last *Action
	if !view.Won {
		for _, row := range view.Cells {
			for _, cell := range row {
				tile := g.tiles[cell.Position]
				if tile == nil || tile.lit == cell.IsLit {
					continue
				}
				tile.lit = cell.IsLit
				last = g.flip(tile)
			}
		}
	} else if !g.won {
		g.won = true
		for _, tile := range g.tiles {
			if tile.lit {
				tile.lit = false
				last = g.flip(tile)
			}
		}
		wonTween := gween.New(0, 1, .6, ease.OutQuad)
		var action *Action
		if last != nil {
			action = last.next(wonTween)
		} else {
			action = &Action{}
			g.Tweens[wonTween] = action
		}
		action.onChange = func(v float32) { g.wonAlpha = float64(v) }
		action.addOnFinish(func() { g.Frame.SetColor(COLOR_FRAME_WON) })
		log.Info("board is dark, game won")
	}

	if lit := g.Table.Grid().Lit(); lit != g.lit {
		g.lit = lit
		g.LitLabel = g.prepareTextImage(fmt.Sprintf("lights on: %d", lit), g.smallFont, 300, header)
	}
}

func (g *Game) flip(tile *Tile) *Action {
	t := gween.New(0, 1, .25, ease.OutQuad)
	action := &Action{onChange: func(v float32) { tile.fade = float64(v) }}
	action.addOnFinish(func() { tile.fade = 1 })
	g.Tweens[t] = action
	return action
}

func (g *Game) restart() {
	table, err := newTable(g.Options)
	if err != nil {
		log.Errorf("cant start a new game: %v", err)
		return
	}
	g.setTable(table)
}

func (g *Game) update(screen *ebiten.Image) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
	}

	g.updateTweens(frameTime)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.strokes[NewStroke(&MouseStrokeSource{})] = struct{}{}
	}
	for _, id := range inpututil.JustPressedTouchIDs() {
		g.strokes[NewStroke(&TouchStrokeSource{id})] = struct{}{}
	}

	view := g.Table.Render()
	for s := range g.strokes {
		g.updateStroke(s, view)
		if s.IsReleased() {
			delete(g.strokes, s)
		}
	}
	// activations above may have replaced the grid
	g.sync(g.Table.Render())

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	return g.draw(screen)
}

func (g *Game) draw(screen *ebiten.Image) error {
	if err := screen.Fill(color.RGBA{70, 70, 70, 255}); err != nil {
		log.Printf("%v", err)
	}

	if !g.won || len(g.Tweens) > 0 {
		for _, tile := range g.tiles {
			tile.Draw(screen, g.square, g.tileSize)
		}
	}
	g.Frame.Draw(screen)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(8, 0)
	screen.DrawImage(g.LitLabel, op)

	if g.won {
		screenW, screenH := g.screenSize()
		op = &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screenW/2-100), float64(screenH/2-30))
		op.ColorM.Scale(1, 1, 1, g.wonAlpha)
		screen.DrawImage(g.WonLabel, op)
	}

	screenW, _ := g.screenSize()
	ebitenutil.DebugPrintAt(screen, g.Table.State().Name(), screenW-60, 4)
	return nil
}

func main() {
	o := parseOptions()
	table, err := newTable(o)
	if err != nil {
		log.Fatal(err)
	}
	game, err := NewGame(o, table)
	if err != nil {
		log.Fatal(err)
	}
	screenW, screenH := game.screenSize()
	err = ebiten.Run(game.update, screenW, screenH, 1, "Lights Out")
	if closer, ok := game.Table.(io.Closer); ok {
		closer.Close()
	}
	if err != nil && err != errQuit {
		log.Fatal(err)
	}
}
