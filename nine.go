package main

import (
	"image"

	"github.com/hajimehoshi/ebiten"
)

const frameBorder = 4

// Nine draws a nine-slice frame: corners keep their size, edges and center
// stretch to the requested rectangle.
type Nine struct {
	images              *ebiten.Image
	alpha               float64
	R, G, B, Scale      float64
	positions           [4][2]int
	x, y, width, height int
	scaleCenterWidth    float64
	scaleCenterHeight   float64
	targetPositions     [4][2]float64
}

// newFrame builds the frame drawn around the board: an opaque border of
// frameBorder pixels around a transparent middle.
func newFrame(color GameColor) (*Nine, error) {
	side := 3 * frameBorder
	img, err := ebiten.NewImage(side, side, ebiten.FilterDefault)
	if err != nil {
		return nil, err
	}
	pix := make([]byte, 4*side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if x >= frameBorder && x < 2*frameBorder && y >= frameBorder && y < 2*frameBorder {
				continue
			}
			i := 4 * (y*side + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = 0xff, 0xff, 0xff, 0xff
		}
	}
	if err := img.ReplacePixels(pix); err != nil {
		return nil, err
	}
	return &Nine{
		images: img,
		alpha:  1,
		R:      color.r, G: color.g, B: color.b, Scale: 1,
		positions: [4][2]int{{0, 0}, {frameBorder, frameBorder}, {2 * frameBorder, 2 * frameBorder}, {side, side}},
	}, nil
}

func (n *Nine) SetColor(color GameColor) {
	n.R, n.G, n.B = color.r, color.g, color.b
}

func (n *Nine) SetPosition(x, y int) {
	n.x = x
	n.y = y
	n.SetSize(n.width, n.height)
}

func (n *Nine) SetSize(width, height int) {
	n.width = width
	n.height = height
	n.targetPositions[0][0] = float64(n.x)
	n.targetPositions[0][1] = float64(n.y)

	n.targetPositions[1][0] = float64(n.x) + n.Scale*float64(n.positions[1][0])
	n.targetPositions[1][1] = float64(n.y) + n.Scale*float64(n.positions[1][1])

	n.targetPositions[2][0] = float64(n.x+n.width) - n.Scale*float64(n.positions[3][0]-n.positions[2][0])
	n.targetPositions[2][1] = float64(n.y+n.height) - n.Scale*float64(n.positions[3][1]-n.positions[2][1])

	innerWidth := n.targetPositions[2][0] - n.targetPositions[1][0]
	innerHigh := n.targetPositions[2][1] - n.targetPositions[1][1]

	n.scaleCenterWidth = innerWidth / float64(n.positions[2][0]-n.positions[1][0])
	n.scaleCenterHeight = innerHigh / float64(n.positions[2][1]-n.positions[1][1])
}

func (n *Nine) Draw(screen *ebiten.Image) {
	xs := [3]float64{n.targetPositions[0][0], n.targetPositions[1][0], n.targetPositions[2][0]}
	ys := [3]float64{n.targetPositions[0][1], n.targetPositions[1][1], n.targetPositions[2][1]}
	scaleX := [3]float64{n.Scale, n.scaleCenterWidth, n.Scale}
	scaleY := [3]float64{n.Scale, n.scaleCenterHeight, n.Scale}

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			src := image.Rect(
				n.positions[col][0], n.positions[row][1],
				n.positions[col+1][0], n.positions[row+1][1])
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(scaleX[col], scaleY[row])
			op.GeoM.Translate(xs[col], ys[row])
			op.ColorM.Scale(n.R, n.G, n.B, n.alpha)
			screen.DrawImage(n.images.SubImage(src).(*ebiten.Image), op)
		}
	}
}
